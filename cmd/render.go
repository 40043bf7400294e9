package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-matcher/internal/matching"
)

const none = "-"

func renderText(w io.Writer, r *matching.MatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Job title:\t%s\n", stringOr(r.JobTitle))
	fmt.Fprintf(tw, "Overall score:\t%.2f%%\n", r.OverallScore)
	fmt.Fprintf(tw, "Skill match:\t%.2f%%\n", r.SkillMatch)
	fmt.Fprintf(tw, "Experience match:\t%.2f%% (required %s, candidate %s)\n",
		r.ExpMatchPct, years(r.RequiredExperience), years(r.UserExperience))
	fmt.Fprintf(tw, "Semantic similarity:\t%.4f\n", r.SemanticSimilarity)
	fmt.Fprintf(tw, "Matched skills:\t%s\n", list(r.MatchedSkills))
	fmt.Fprintf(tw, "Missing skills:\t%s\n", list(r.MissingSkills))
	if len(r.Fallbacks) > 0 {
		fmt.Fprintf(tw, "Fallbacks used:\t%s\n", list(r.Fallbacks))
	}

	return tw.Flush()
}

func renderSkills(w io.Writer, r *matching.MatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Required skills:\t%s\n", list(r.RequiredSkills))
	fmt.Fprintf(tw, "Candidate skills:\t%s\n", list(r.UserSkills))
	fmt.Fprintf(tw, "Matched skills:\t%s\n", list(r.MatchedSkills))
	fmt.Fprintf(tw, "Missing skills:\t%s\n", list(r.MissingSkills))

	return tw.Flush()
}

func renderExperiences(w io.Writer, r *matching.MatchResult) error {
	if len(r.Experiences) == 0 {
		_, err := fmt.Fprintln(w, "No experiences found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POSITION\tCOMPANY\tPERIOD\tYEARS")
	for _, e := range r.Experiences {
		fmt.Fprintf(tw, "%s\t%s\t%s - %s\t%s\n",
			stringOr(e.Position), stringOr(e.Company),
			stringOr(e.StartDate), stringOr(e.EndDate), years(e.DurationYears))
	}

	return tw.Flush()
}

func stringOr(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return none
	}
	return *s
}

func years(v *float64) string {
	if v == nil {
		return none
	}
	return fmt.Sprintf("%g", *v)
}

func list(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, ", ")
}
