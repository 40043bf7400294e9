package ai

// JobRequirements is what a job posting asks of a candidate.
type JobRequirements struct {
	RequiredExperienceYears *float64 `json:"required_experience_years"`
	RequiredSkills          []string `json:"required_skills"`
	Title                   *string  `json:"title"`
}

// ResumeProfile is what a resume says about a candidate.
type ResumeProfile struct {
	TotalExperienceYears *float64          `json:"total_experience_years"`
	Skills               []string          `json:"skills"`
	Experiences          []ExperienceEntry `json:"experiences"`
}

// ExperienceEntry is a single position from the resume. Dates are kept as the
// model returned them.
type ExperienceEntry struct {
	Position      *string  `json:"position"`
	Company       *string  `json:"company"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	DurationYears *float64 `json:"duration_years"`
	Description   *string  `json:"description"`
}

// SkillComparison is the outcome of comparing two skill lists.
type SkillComparison struct {
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	MatchPercentage float64  `json:"match_percentage"`
}
