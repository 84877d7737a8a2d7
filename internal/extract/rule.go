package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// NumericRule is one named pattern+validator pair in a field's ordered
// rule list. Patterns find a candidate number, Parse turns the submatches
// into a value, Validate enforces the field's plausible range. Keeping
// validators separate from patterns means a new pattern cannot bypass
// range sanity.
type NumericRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Parse    func(m []string) (float64, bool)
	Validate func(v float64) bool
}

// FirstMatch evaluates rules in order and returns the first match that
// parses and validates. Out-of-range matches are discarded, never
// clamped; the search does not fall through to later occurrences of the
// same pattern, only to later rules.
func FirstMatch(rules []NumericRule, text string) (float64, string, bool) {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, ok := r.Parse(m)
		if !ok {
			continue
		}
		if r.Validate != nil && !r.Validate(v) {
			continue
		}
		return v, r.Name, true
	}
	return 0, "", false
}

var numberCleaner = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".")

// parseNumber reads a Russian-formatted number: spaces or NBSP as
// thousands separators, comma or dot as the decimal separator.
func parseNumber(s string) (float64, bool) {
	cleaned := numberCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// inRange builds a closed-interval validator.
func inRange(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return v >= lo && v <= hi }
}

// firstGroup is the common Parse: take submatch 1 as the number.
func firstGroup(m []string) (float64, bool) {
	return parseNumber(m[1])
}
