// Package merge groups candidates that refer to the same real-world
// project and folds each group into one record.
//
// The policy is field-level first-wins, not whole-record precedence: a
// low-scored candidate may still hold the only known value for a field
// the high-scored one lacks. Groups are ordered by (score desc, source
// id asc) before the reduction, which makes the first-wins rule and the
// prefer-higher-score conflict tie-break the same deterministic rule.
package merge

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
	"github.com/kvadra-invest/catalog-cli/internal/score"
)

// Result is the outcome of merging one slug group.
type Result struct {
	Merged    model.Candidate
	Sources   []string // contributing source ids
	Conflicts int      // discarded conflicting values
}

// Merge reduces candidates into one record per slug. The accumulator map
// lives only for this call; nothing outside the merge stage sees it.
// Each merged record gets a freshly computed score from its final field
// set; a constituent's score is never reused because merge can change
// the plausibility of combined fields.
func Merge(candidates []model.Candidate) []Result {
	groups := make(map[string][]model.Candidate)
	var order []string
	for _, c := range candidates {
		if _, seen := groups[c.Slug]; !seen {
			order = append(order, c.Slug)
		}
		groups[c.Slug] = append(groups[c.Slug], c)
	}
	sort.Strings(order)

	results := make([]Result, 0, len(order))
	for _, slug := range order {
		results = append(results, mergeGroup(groups[slug]))
	}
	return results
}

func mergeGroup(group []model.Candidate) Result {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Score != group[j].Score {
			return group[i].Score > group[j].Score
		}
		return group[i].SourceID < group[j].SourceID
	})

	res := Result{Merged: group[0]}
	res.Sources = []string{group[0].SourceID}

	for _, c := range group[1:] {
		res.Sources = append(res.Sources, c.SourceID)
		res.Conflicts += fold(&res.Merged, c)
	}

	res.Merged.Derived = nil // recomputed by the post-merge reconcile pass
	res.Merged.Score = score.Score(res.Merged)
	return res
}

// fold copies fields the accumulator is missing from the next
// contributor and counts conflicting values it discards. Discards are
// logged rather than silently dropped.
func fold(dst *model.Candidate, src model.Candidate) int {
	conflicts := 0

	takeNum := func(field string, d **float64, s *float64) {
		if s == nil {
			return
		}
		if *d == nil {
			*d = s
			return
		}
		if **d != *s {
			conflicts++
			zap.L().Debug("merge: conflicting value discarded",
				zap.String("slug", dst.Slug),
				zap.String("field", field),
				zap.Float64("kept", **d),
				zap.Float64("discarded", *s),
				zap.String("discarded_source", src.SourceID),
			)
		}
	}

	takeStr := func(field string, d *string, s string) {
		if s == "" {
			return
		}
		if *d == "" {
			*d = s
			return
		}
		if *d != s {
			conflicts++
			zap.L().Debug("merge: conflicting value discarded",
				zap.String("slug", dst.Slug),
				zap.String("field", field),
				zap.String("kept", *d),
				zap.String("discarded", s),
				zap.String("discarded_source", src.SourceID),
			)
		}
	}

	takeNum("price", &dst.Price, src.Price)
	takeNum("area", &dst.Area, src.Area)
	takeNum("price_per_m2", &dst.PricePerM2, src.PricePerM2)
	takeNum("roi_percent", &dst.ROIPercent, src.ROIPercent)
	takeNum("occupancy_percent", &dst.OccupancyPercent, src.OccupancyPercent)
	takeNum("adr", &dst.ADR, src.ADR)
	takeNum("payback_years", &dst.PaybackYears, src.PaybackYears)
	takeNum("rev_per_m2_month", &dst.RevPerM2Month, src.RevPerM2Month)
	takeNum("occ_low_season", &dst.OccLowSeason, src.OccLowSeason)
	takeNum("occ_high_season", &dst.OccHighSeason, src.OccHighSeason)

	takeStr("city", &dst.City, src.City)
	takeStr("format", &dst.Format, src.Format)

	if dst.Status == "" {
		dst.Status = src.Status
	}
	if len(src.Description) > len(dst.Description) {
		// Longer description wins; the short one adds nothing.
		dst.Description = src.Description
	}
	dst.Photos = appendNewPhotos(dst.Photos, src.Photos)
	if dst.SourceDate == nil || (src.SourceDate != nil && src.SourceDate.After(*dst.SourceDate)) {
		dst.SourceDate = src.SourceDate
	}

	return conflicts
}

func appendNewPhotos(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, p := range dst {
		seen[p] = true
	}
	for _, p := range src {
		if !seen[p] {
			dst = append(dst, p)
			seen[p] = true
		}
	}
	return dst
}
