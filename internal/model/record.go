// Package model defines the shapes that move between pipeline stages:
// raw source records, extraction candidates, canonical projects, and
// skip-report entries.
package model

import "time"

// SourceKind identifies the input format a record came from.
type SourceKind string

const (
	SourceTelegram SourceKind = "telegram"
	SourceTable    SourceKind = "table"
	SourceJSON     SourceKind = "json"
)

// RawRecord is a format-agnostic bag of optional fields produced by a
// source reader. It is immutable once produced and consumed only by the
// extractor.
type RawRecord struct {
	SourceID   string     `json:"source_id"`
	Source     SourceKind `json:"source"`
	SourceDate *time.Time `json:"source_date,omitempty"`

	Title  string   `json:"title,omitempty"`
	City   string   `json:"city,omitempty"`
	Body   string   `json:"body,omitempty"`
	Photos []string `json:"photos,omitempty"`

	// Numeric hints mapped from structured columns. Text-sourced records
	// leave these nil and rely on the extractor.
	Price            *float64 `json:"price,omitempty"`
	Area             *float64 `json:"area,omitempty"`
	PricePerM2       *float64 `json:"price_per_m2,omitempty"`
	ROIPercent       *float64 `json:"roi_percent,omitempty"`
	OccupancyPercent *float64 `json:"occupancy_percent,omitempty"`
	ADR              *float64 `json:"adr,omitempty"`
	PaybackYears     *float64 `json:"payback_years,omitempty"`
	RevPerM2Month    *float64 `json:"rev_per_m2_month,omitempty"`
	OccLowSeason     *float64 `json:"occ_low_season,omitempty"`
	OccHighSeason    *float64 `json:"occ_high_season,omitempty"`
}

// Structured reports whether the record carries any structured numeric
// fields. Structured records bypass text extraction.
func (r RawRecord) Structured() bool {
	return r.Price != nil || r.Area != nil || r.PricePerM2 != nil ||
		r.ROIPercent != nil || r.OccupancyPercent != nil || r.ADR != nil ||
		r.PaybackYears != nil || r.RevPerM2Month != nil ||
		r.OccLowSeason != nil || r.OccHighSeason != nil
}

// Candidate is a RawRecord after field extraction. All numeric fields are
// individually optional; nothing is defaulted before reconciliation.
type Candidate struct {
	SourceID   string     `json:"source_id"`
	Source     SourceKind `json:"source"`
	SourceDate *time.Time `json:"source_date,omitempty"`

	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	City        string   `json:"city,omitempty"`
	Format      string   `json:"format,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Photos      []string `json:"photos,omitempty"`

	Price            *float64 `json:"price,omitempty"`
	Area             *float64 `json:"area,omitempty"`
	PricePerM2       *float64 `json:"price_per_m2,omitempty"`
	ROIPercent       *float64 `json:"roi_percent,omitempty"`
	OccupancyPercent *float64 `json:"occupancy_percent,omitempty"`
	ADR              *float64 `json:"adr,omitempty"`
	PaybackYears     *float64 `json:"payback_years,omitempty"`
	RevPerM2Month    *float64 `json:"rev_per_m2_month,omitempty"`

	// Seasonal occupancy samples, when a source states only a low- and
	// high-season figure instead of a 12-month series.
	OccLowSeason  *float64 `json:"occ_low_season,omitempty"`
	OccHighSeason *float64 `json:"occ_high_season,omitempty"`

	// Derived marks fields that were computed by the reconciler rather
	// than extracted from the source.
	Derived map[string]bool `json:"derived,omitempty"`

	// Score is attached by the quality scorer. A merged candidate gets a
	// freshly computed score from its final field set.
	Score int `json:"score"`
}

// MarkDerived records that a field value was computed, not observed.
func (c *Candidate) MarkDerived(field string) {
	if c.Derived == nil {
		c.Derived = make(map[string]bool)
	}
	c.Derived[field] = true
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }
