package matching

import (
	"regexp"
	"strconv"
)

var yearsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:\+)?\s*(?:years|yrs|year)`)

// FindYears returns the first "N years" figure mentioned in the text.
func FindYears(text string) *float64 {
	m := yearsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	years, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}

	return &years
}
