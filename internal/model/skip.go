package model

// SkipReason categorizes why a record was excluded from the catalog.
type SkipReason string

const (
	SkipNoIdentity     SkipReason = "no_identity"
	SkipBelowThreshold SkipReason = "below_quality_threshold"
	SkipUnreconcilable SkipReason = "unreconcilable"
	SkipMalformed      SkipReason = "malformed"
	SkipInvalidSchema  SkipReason = "invalid_schema"
)

// SkipEntry is one audit-trail row for a record that did not make it
// into the catalog. Retained for investigation, never fed downstream.
type SkipEntry struct {
	Identifier   string     `json:"identifier"`
	Reason       SkipReason `json:"reason"`
	QualityScore int        `json:"qualityScore"`
	Detail       string     `json:"detail,omitempty"`
}

// RunSummary aggregates the outcome of one pipeline run.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	Accepted   int            `json:"accepted"`
	Skipped    int            `json:"skipped"`
	Conflicts  int            `json:"conflicts"`
	ByCity     map[string]int `json:"by_city"`
	ByReason   map[string]int `json:"by_reason"`
	Sources    []string       `json:"sources"`
	DurationMS int64          `json:"duration_ms"`
}
