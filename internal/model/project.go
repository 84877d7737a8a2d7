package model

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive       Status = "active"
	StatusConstruction Status = "construction"
	StatusPlanning     Status = "planning"
)

// RiskLevel is the classified investment risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CanonicalProject is the merged, reconciled, scored record handed to
// downstream consumers. Every numeric field is already dimensionally
// consistent; consumers must not re-derive metrics from partial fields.
type CanonicalProject struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	City    string `json:"city"`
	Country string `json:"country"`
	Format  string `json:"format"`
	Status  Status `json:"status"`

	Price         float64 `json:"price"`
	Area          float64 `json:"area,omitempty"`
	PricePerM2    float64 `json:"pricePerM2,omitempty"`
	RevPerM2Month float64 `json:"revPerM2Month,omitempty"`
	NOIYear       float64 `json:"noiYear,omitempty"`
	PaybackYears  float64 `json:"paybackYears,omitempty"`
	Occupancy     float64 `json:"occupancy,omitempty"`
	ADR           float64 `json:"adr,omitempty"`

	RiskLevel   RiskLevel   `json:"riskLevel"`
	Summary     string      `json:"summary,omitempty"`
	Why         []string    `json:"why,omitempty"`
	Risks       []string    `json:"risks,omitempty"`
	Seasonality [12]float64 `json:"seasonality"`
	Photos      []string    `json:"photos,omitempty"`

	// Derived lists fields whose values were computed from fallback
	// assumptions rather than observed in a source.
	Derived []string `json:"derived,omitempty"`

	QualityScore int       `json:"qualityScore"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Catalog is the single output document consumed by the site.
type Catalog struct {
	Objects []CanonicalProject `json:"objects"`
	Sources CatalogSources     `json:"sources"`
}

// CatalogSources records provenance for a catalog build.
type CatalogSources struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
}
