package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	accepted    INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	conflicts   INTEGER NOT NULL,
	summary     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_skips (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	identifier    TEXT NOT NULL,
	reason        TEXT NOT NULL,
	quality_score INTEGER NOT NULL,
	detail        TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_run_skips_run_id ON run_skips(run_id);
CREATE INDEX IF NOT EXISTS idx_run_skips_reason ON run_skips(reason);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists the run and its skip entries in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, skips []model.SkipEntry) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save run")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, accepted, skipped, conflicts, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Summary.Accepted, run.Summary.Skipped, run.Summary.Conflicts,
		string(summaryJSON),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	for _, sk := range skips {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_skips (run_id, identifier, reason, quality_score, detail)
			 VALUES (?, ?, ?, ?, ?)`,
			run.ID, sk.Identifier, string(sk.Reason), sk.QualityScore, sk.Detail,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert skip for run %s", run.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, summary FROM runs WHERE id = ?`,
		runID,
	)

	var r Run
	var summaryJSON string
	err := row.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &summaryJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &r.Summary); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal summary")
	}
	return &r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, summary FROM runs ORDER BY started_at DESC`
	var args []any

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var summaryJSON string
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &summaryJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if err := json.Unmarshal([]byte(summaryJSON), &r.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListRunSkips(ctx context.Context, runID string) ([]model.SkipEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, reason, quality_score, detail FROM run_skips WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list skips for run %s", runID)
	}
	defer rows.Close()

	var skips []model.SkipEntry
	for rows.Next() {
		var sk model.SkipEntry
		var reason string
		if err := rows.Scan(&sk.Identifier, &reason, &sk.QualityScore, &sk.Detail); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan skip")
		}
		sk.Reason = model.SkipReason(reason)
		skips = append(skips, sk)
	}
	return skips, eris.Wrap(rows.Err(), "sqlite: list skips iterate")
}
