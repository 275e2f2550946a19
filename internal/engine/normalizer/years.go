// internal/engine/normalizer/years.go
package normalizer

import (
	"regexp"
	"strconv"
)

// Description patterns that imply years in business, tried in order; the
// first hit wins. The second pattern captures a founding year and is
// converted to elapsed years against the reference year.
var (
	yearsOfPattern  = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+of\s+(?:experience|service|business)`)
	sincePattern    = regexp.MustCompile(`(?i)(?:since|established(?:\s+in)?|founded(?:\s+in)?)\s+(\d{4})`)
	overYearPattern = regexp.MustCompile(`(?i)(?:over|more\s+than)\s+(\d+)\s+years?`)
)

const maxPlausibleYears = 150

// ExtractYears pulls a years-in-business figure out of free-form description
// text. Returns nil when no pattern matches or the match is implausible.
func ExtractYears(description string, referenceYear int) *int {
	if m := yearsOfPattern.FindStringSubmatch(description); m != nil {
		if years := parsePlausibleYears(m[1]); years != nil {
			return years
		}
	}

	if m := sincePattern.FindStringSubmatch(description); m != nil {
		founded, err := strconv.Atoi(m[1])
		if err == nil && founded <= referenceYear && referenceYear-founded <= maxPlausibleYears {
			elapsed := referenceYear - founded
			return &elapsed
		}
	}

	if m := overYearPattern.FindStringSubmatch(description); m != nil {
		if years := parsePlausibleYears(m[1]); years != nil {
			return years
		}
	}

	return nil
}

func parsePlausibleYears(raw string) *int {
	years, err := strconv.Atoi(raw)
	if err != nil || years <= 0 || years > maxPlausibleYears {
		return nil
	}
	return &years
}
