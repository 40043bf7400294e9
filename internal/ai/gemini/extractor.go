package gemini

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/utils"
)

const defaultMaxLogLength = 200

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, user string) (string, error)
}

// Extractor implements ai.Extractor on top of a Gemini chat model.
type Extractor struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Extractor) ExtractJobRequirements(ctx context.Context, text string) (*ai.JobRequirements, error) {
	prompt := renderPrompt(jobPromptTemplate, map[string]string{"JOB_TEXT": text})

	data, err := e.generateObject(ctx, "job", jobSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	normalizeYears(data, "required_experience_years")

	var job ai.JobRequirements
	if err := decode(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (e *Extractor) ExtractResumeProfile(ctx context.Context, text string) (*ai.ResumeProfile, error) {
	prompt := renderPrompt(resumePromptTemplate, map[string]string{"RESUME_TEXT": text})

	data, err := e.generateObject(ctx, "resume", resumeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	normalizeYears(data, "total_experience_years")
	if experiences, ok := data["experiences"].([]any); ok {
		for _, item := range experiences {
			if entry, ok := item.(map[string]any); ok {
				normalizeYears(entry, "duration_years")
			}
		}
	}

	var profile ai.ResumeProfile
	if err := decode(data, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (e *Extractor) generateObject(ctx context.Context, kind, system, prompt string) (map[string]any, error) {
	if e.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}

	e.logger.Debug("gemini extraction request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseObject(raw)
}
