package store

import (
	"context"
	"time"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// Run is a persisted record of one ingestion run.
type Run struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Summary    model.RunSummary `json:"summary"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines run-history persistence for the ingestion pipeline.
type Store interface {
	SaveRun(ctx context.Context, run Run, skips []model.SkipEntry) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	ListRunSkips(ctx context.Context, runID string) ([]model.SkipEntry, error)

	Migrate(ctx context.Context) error
	Close() error
}
