package matching

import (
	"math"
	"strings"
)

// Weights of the overall score.
const (
	SkillWeight      = 0.75
	ExperienceWeight = 0.25
)

// ExperienceMatch returns how well the candidate experience covers the
// requirement, in percent.
//
// No requirement gives full credit, an unknown candidate experience gives none.
func ExperienceMatch(required, total *float64) float64 {
	switch {
	case required == nil:
		return 100
	case total == nil:
		return 0
	case *required <= 0:
		return 100
	case *total <= 0:
		return 0
	}

	return round(math.Min(100, *total / *required * 100), 2)
}

// FallbackSkillMatch matches skills by case-insensitive equality. It is used
// when the skill comparator is not available.
//
// Job skills are deduplicated case-insensitively keeping the first spelling,
// so a skill listed twice counts once on both sides of the ratio.
func FallbackSkillMatch(jobSkills, resumeSkills []string) (matched, missing []string, percentage float64) {
	matched = []string{}
	missing = []string{}

	resumeSet := make(map[string]struct{}, len(resumeSkills))
	for _, skill := range resumeSkills {
		resumeSet[strings.ToLower(skill)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(jobSkills))
	for _, skill := range jobSkills {
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := resumeSet[key]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	if len(seen) == 0 {
		return matched, missing, 0
	}

	return matched, missing, round(float64(len(matched))/float64(max(1, len(seen)))*100, 2)
}

// OverallScore combines the skill and experience percentages.
func OverallScore(skillMatch, expMatch float64) float64 {
	return round((SkillWeight*(skillMatch/100)+ExperienceWeight*(expMatch/100))*100, 2)
}

// cleanSkills trims every skill and drops the empty ones.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := strings.TrimSpace(skill); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
