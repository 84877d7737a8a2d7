// Package extract turns raw source records into scoring candidates by
// applying ordered pattern rules to free text. Each field has its own
// rule list; the first rule whose match parses and passes the plausible
// range wins, and no field is ever assigned from more than one rule.
package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// Options controls extraction behavior.
type Options struct {
	DefaultCity   string
	MinTitleRunes int
}

// Extract converts a RawRecord into a Candidate. Structured records
// (table rows, JSON dumps mapped to numeric hints) keep their columns
// untouched; text-sourced records go through the pattern rules.
// The second return is false when the record yields no usable identity.
func Extract(rec model.RawRecord, opts Options) (model.Candidate, bool) {
	if rec.Structured() {
		return fromStructured(rec, opts)
	}
	return fromText(rec, opts)
}

func fromStructured(rec model.RawRecord, opts Options) (model.Candidate, bool) {
	title := cleanTitle(rec.Title)
	slug := Slugify(title)
	if SlugLetters(slug) < opts.MinTitleRunes {
		return model.Candidate{}, false
	}

	c := model.Candidate{
		SourceID:   rec.SourceID,
		Source:     rec.Source,
		SourceDate: rec.SourceDate,
		Slug:       slug,
		Title:      title,
		City:       rec.City,
		Photos:     rec.Photos,

		Price:            rec.Price,
		Area:             rec.Area,
		PricePerM2:       rec.PricePerM2,
		ROIPercent:       rec.ROIPercent,
		OccupancyPercent: rec.OccupancyPercent,
		ADR:              rec.ADR,
		PaybackYears:     rec.PaybackYears,
		RevPerM2Month:    rec.RevPerM2Month,
		OccLowSeason:     rec.OccLowSeason,
		OccHighSeason:    rec.OccHighSeason,
	}
	if c.City == "" {
		c.City = InferCity(title+" "+rec.Body, opts.DefaultCity)
	}
	c.Description = normalizeBody(rec.Body)
	c.Format = InferFormat(title + " " + rec.Body)
	c.Status = InferStatus(title + " " + rec.Body)
	return c, true
}

func fromText(rec model.RawRecord, opts Options) (model.Candidate, bool) {
	body := rec.Body

	title := rec.Title
	if title == "" {
		title = ExtractTitle(body)
	}
	title = cleanTitle(title)
	slug := Slugify(title)
	if SlugLetters(slug) < opts.MinTitleRunes {
		zap.L().Debug("extract: record dropped, no usable identity",
			zap.String("source_id", rec.SourceID),
			zap.String("title", title),
		)
		return model.Candidate{}, false
	}

	c := model.Candidate{
		SourceID:    rec.SourceID,
		Source:      rec.Source,
		SourceDate:  rec.SourceDate,
		Slug:        slug,
		Title:       title,
		City:        InferCity(body, opts.DefaultCity),
		Format:      InferFormat(body),
		Status:      InferStatus(body),
		Description: normalizeBody(body),
		Photos:      rec.Photos,
	}

	assign := func(dst **float64, rules []NumericRule, field string) {
		v, rule, ok := FirstMatch(rules, body)
		if !ok {
			return // extraction miss: field stays absent
		}
		*dst = model.Float(v)
		zap.L().Debug("extract: field matched",
			zap.String("source_id", rec.SourceID),
			zap.String("field", field),
			zap.String("rule", rule),
			zap.Float64("value", v),
		)
	}

	assign(&c.Price, PriceRules, "price")
	assign(&c.PricePerM2, PPM2Rules, "price_per_m2")
	assign(&c.Area, AreaRules, "area")
	assign(&c.ROIPercent, ROIRules, "roi_percent")
	assign(&c.OccupancyPercent, OccupancyRules, "occupancy_percent")
	assign(&c.ADR, ADRRules, "adr")
	assign(&c.PaybackYears, PaybackRules, "payback_years")

	return c, true
}

// InferStatus reads explicit lifecycle keywords; absent contrary
// evidence a project is assumed to be operating.
func InferStatus(text string) model.Status {
	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, completedKeywords):
		return model.StatusActive
	case containsAny(lowered, constructionKeywords):
		return model.StatusConstruction
	case containsAny(lowered, planningKeywords):
		return model.StatusPlanning
	default:
		return model.StatusActive
	}
}

// normalizeBody collapses whitespace runs into single spaces. Line
// structure only matters during title extraction, not downstream.
func normalizeBody(body string) string {
	return strings.Join(strings.Fields(body), " ")
}
