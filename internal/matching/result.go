package matching

import (
	"encoding/json"
	"os"

	"github.com/spigell/resume-matcher/internal/ai"
)

// Names of the fallback policies reported in MatchResult.Fallbacks.
const (
	FallbackJobExtraction    = "job_extraction"
	FallbackResumeExtraction = "resume_extraction"
	FallbackSkillComparison  = "skill_comparison"
	FallbackEmbedding        = "embedding"
)

// MatchResult is the outcome of matching one resume against one job posting.
// OverallScore is always OverallScore(SkillMatch, ExpMatchPct).
type MatchResult struct {
	OverallScore       float64              `json:"overall_score"`
	SemanticSimilarity float64              `json:"semantic_similarity"`
	RequiredExperience *float64             `json:"required_experience"`
	UserExperience     *float64             `json:"user_experience"`
	ExpMatchPct        float64              `json:"exp_match_pct"`
	SkillMatch         float64              `json:"skill_match"`
	RequiredSkills     []string             `json:"required_skills"`
	UserSkills         []string             `json:"user_skills"`
	MatchedSkills      []string             `json:"matched_skills"`
	MissingSkills      []string             `json:"missing_skills"`
	Experiences        []ai.ExperienceEntry `json:"experiences"`
	JobTitle           *string              `json:"job_title"`
	Fallbacks          []string             `json:"fallbacks,omitempty"`
}

// UsedFallback reports whether the named fallback policy was applied.
func (r *MatchResult) UsedFallback(name string) bool {
	for _, f := range r.Fallbacks {
		if f == name {
			return true
		}
	}
	return false
}

// DumpToTmpFile writes the result as indented JSON to a new temporary file and
// returns its name.
func (r *MatchResult) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "match_result_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
