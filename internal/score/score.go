// Package score computes the bounded quality score for a candidate.
//
// The score is a sum of independent binary checks whose weights add up
// to 100. The additive design keeps the score monotonic in information
// gained: a new range-valid field can only raise it, which the merge
// stage relies on when it recomputes acceptance from a merged field set.
package score

import (
	"strings"
	"unicode/utf8"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// Check is one independently evaluated scoring condition. Full weight or
// zero, never partial credit.
type Check struct {
	Name   string
	Weight int
	Pass   func(c model.Candidate) bool
}

// Plausible ranges used by the scorer. Kept in sync with the extractor's
// validators; the scorer re-checks because structured sources bypass
// extraction.
const (
	minPriceRUB = 1_000_000
	maxPriceRUB = 2_000_000_000
	minAreaM2   = 10
	maxAreaM2   = 200
	minPPM2     = 20_000
	maxPPM2     = 1_500_000
	minROIPct   = 3
	maxROIPct   = 40

	minDescriptionRunes = 80
)

// genericTitles are listing boilerplate that carries no identity.
var genericTitles = map[string]bool{
	"апартаменты": true,
	"апартамент":  true,
	"продажа":     true,
	"инвестиции":  true,
	"новостройка": true,
	"объект":      true,
	"предложение": true,
	"студия":      true,
	"investment":  true,
	"apartments":  true,
}

// Checks is the fixed weight table. Weights sum to 100.
var Checks = []Check{
	{"plausible_title", 15, func(c model.Candidate) bool {
		n := utf8.RuneCountInString(c.Title)
		return n >= 5 && n <= 120 && !genericTitles[strings.ToLower(c.Title)]
	}},
	{"plausible_price", 20, func(c model.Candidate) bool {
		return c.Price != nil && *c.Price >= minPriceRUB && *c.Price <= maxPriceRUB
	}},
	{"plausible_area", 15, func(c model.Candidate) bool {
		return c.Area != nil && *c.Area >= minAreaM2 && *c.Area <= maxAreaM2
	}},
	{"plausible_price_per_m2", 15, func(c model.Candidate) bool {
		return c.PricePerM2 != nil && *c.PricePerM2 >= minPPM2 && *c.PricePerM2 <= maxPPM2
	}},
	{"plausible_roi", 15, func(c model.Candidate) bool {
		return c.ROIPercent != nil && *c.ROIPercent >= minROIPct && *c.ROIPercent <= maxROIPct
	}},
	{"description", 10, func(c model.Candidate) bool {
		return utf8.RuneCountInString(c.Description) >= minDescriptionRunes
	}},
	{"photos", 10, func(c model.Candidate) bool {
		return len(c.Photos) > 0
	}},
}

// Score returns the candidate's quality score in [0,100]. Deterministic
// and stateless; a merged candidate must be rescored from its final
// field set, never reuse a constituent's score.
func Score(c model.Candidate) int {
	total := 0
	for _, check := range Checks {
		if check.Pass(c) {
			total += check.Weight
		}
	}
	return total
}

// Breakdown returns the names of the checks the candidate passed.
// Used in skip-report details and debug logging.
func Breakdown(c model.Candidate) []string {
	var passed []string
	for _, check := range Checks {
		if check.Pass(c) {
			passed = append(passed, check.Name)
		}
	}
	return passed
}
