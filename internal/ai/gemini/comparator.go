package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/utils"
)

var comparisonSchema = mustSchema(comparisonSchemaJSON)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("compile comparison schema: %v", err))
	}
	return schema
}

// Comparator implements ai.SkillComparator on top of a Gemini chat model.
// Synonyms and related skills count as matches.
type Comparator struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewComparator(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Comparator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (c *Comparator) CompareSkills(ctx context.Context, resumeSkills, jobSkills []string) (*ai.SkillComparison, error) {
	if c.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}

	resumeJSON, err := json.Marshal(nonNil(resumeSkills))
	if err != nil {
		return nil, fmt.Errorf("marshal resume skills: %w", err)
	}
	jobJSON, err := json.Marshal(nonNil(jobSkills))
	if err != nil {
		return nil, fmt.Errorf("marshal job skills: %w", err)
	}

	prompt := renderPrompt(comparisonPromptTemplate, map[string]string{
		"RESUME_SKILLS": string(resumeJSON),
		"JOB_SKILLS":    string(jobJSON),
	})

	c.logger.Debug("gemini skill comparison request",
		zap.Int("resume_skills", len(resumeSkills)),
		zap.Int("job_skills", len(jobSkills)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateJSON(ctx, comparisonSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini skill comparison response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	return parseComparison(raw)
}

func parseComparison(raw string) (*ai.SkillComparison, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	if msg := coerceString(data["error"]); msg != "" {
		return nil, fmt.Errorf("skill comparison failed: %s", msg)
	}
	delete(data, "error")

	if _, ok := data["match_percentage"].(string); ok {
		normalizeNumber(data, "match_percentage")
	}

	result, err := comparisonSchema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate skill comparison: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("invalid skill comparison: %s", strings.Join(problems, "; "))
	}

	var comparison ai.SkillComparison
	if err := decode(data, &comparison); err != nil {
		return nil, err
	}

	return &comparison, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
