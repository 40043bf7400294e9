package gemini

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/job.md
	jobPromptTemplate string
	//go:embed prompts/resume.md
	resumePromptTemplate string
	//go:embed prompts/comparison.md
	comparisonPromptTemplate string
	//go:embed prompts/comparison.schema.json
	comparisonSchemaJSON string
)

const (
	jobSystemPrompt = "You are an accurate, detail-oriented job posting information extractor. " +
		"Return a single JSON object with the requested fields and nothing else. " +
		"Do not summarize or omit skills."

	resumeSystemPrompt = "You are an accurate, detail-oriented resume information extractor. " +
		"Return a single JSON object with the requested fields and nothing else. " +
		"Do not summarize or omit skills."

	comparisonSystemPrompt = "You are a precise skill comparison engine. " +
		"Compare a resume skill list with a job description skill list and return a single JSON object and nothing else."
)

// renderPrompt substitutes {{KEY}} placeholders in the template.
func renderPrompt(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
