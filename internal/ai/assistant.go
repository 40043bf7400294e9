package ai

import (
	"context"
)

// Extractor turns raw job posting and resume text into structured profiles.
type Extractor interface {
	ExtractJobRequirements(ctx context.Context, text string) (*JobRequirements, error)
	ExtractResumeProfile(ctx context.Context, text string) (*ResumeProfile, error)
}

// SkillComparator compares the candidate skills with the skills a job requires.
type SkillComparator interface {
	CompareSkills(ctx context.Context, resumeSkills, jobSkills []string) (*SkillComparison, error)
}

// Embedder returns a vector representation of the text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
