// Package pipeline composes the normalization stages in dependency
// order: source readers, field extraction, scoring, dedup/merge,
// reconciliation, classification, and the output builder.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kvadra-invest/catalog-cli/internal/config"
	"github.com/kvadra-invest/catalog-cli/internal/extract"
	"github.com/kvadra-invest/catalog-cli/internal/merge"
	"github.com/kvadra-invest/catalog-cli/internal/model"
	"github.com/kvadra-invest/catalog-cli/internal/reconcile"
	"github.com/kvadra-invest/catalog-cli/internal/score"
	"github.com/kvadra-invest/catalog-cli/internal/source"
)

// Pipeline is one batch run over the configured sources.
type Pipeline struct {
	cfg        *config.Config
	reconciler *reconcile.Reconciler
	now        func() time.Time
}

// New builds a pipeline from configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		reconciler: reconcile.New(cfg.Reconcile),
		now:        time.Now,
	}
}

// Result is everything one run produces.
type Result struct {
	Catalog model.Catalog
	Skips   []model.SkipEntry
	Summary model.RunSummary
}

// Run executes the full pipeline. Source files are read and extracted in
// parallel since each produces a disjoint record sequence; merge runs as
// a single sequential reduction once every candidate is in. A failed
// optional source is logged and skipped; a failed required source fails
// the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	runID := uuid.New().String()

	candidates, skips, sourceLabels, err := p.collect(ctx)
	if err != nil {
		return nil, err
	}

	// Pre-merge score: recorded on each candidate for merge ordering and
	// conflict tie-breaks. Acceptance is decided on the post-merge score.
	for i := range candidates {
		candidates[i].Score = score.Score(candidates[i])
	}

	merged := merge.Merge(candidates)

	var projects []model.CanonicalProject
	conflicts := 0
	for _, m := range merged {
		conflicts += m.Conflicts

		if m.Merged.Score < p.cfg.Quality.AcceptThreshold {
			entry := model.SkipEntry{
				Identifier:   m.Merged.SourceID,
				Reason:       model.SkipBelowThreshold,
				QualityScore: m.Merged.Score,
			}
			// Every constituent stays visible in the audit trail, not
			// just the winning source id.
			if len(m.Sources) > 1 {
				entry.Detail = "merged from " + strings.Join(m.Sources, ", ")
			}
			skips = append(skips, entry)
			continue
		}

		reconciled, skip := p.reconciler.Reconcile(m.Merged)
		if skip != nil {
			skips = append(skips, *skip)
			continue
		}

		projects = append(projects, p.buildProject(reconciled))
	}

	summary := model.RunSummary{
		RunID:      runID,
		Accepted:   len(projects),
		Skipped:    len(skips),
		Conflicts:  conflicts,
		ByCity:     make(map[string]int),
		ByReason:   make(map[string]int),
		Sources:    sourceLabels,
		DurationMS: p.now().Sub(start).Milliseconds(),
	}
	for _, proj := range projects {
		summary.ByCity[proj.City]++
	}
	for _, s := range skips {
		summary.ByReason[string(s.Reason)]++
	}

	zap.L().Info("pipeline: run complete",
		zap.String("run_id", runID),
		zap.Int("accepted", summary.Accepted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("conflicts", conflicts),
	)

	return &Result{
		Catalog: model.Catalog{
			Objects: projects,
			Sources: model.CatalogSources{
				UpdatedAt: p.now().UTC(),
				Source:    p.cfg.Output.SourceLabel,
			},
		},
		Skips:   skips,
		Summary: summary,
	}, nil
}

// collect reads every configured source in parallel and extracts
// candidates. The mutex guards only the accumulation slices; record
// production per source is independent.
func (p *Pipeline) collect(ctx context.Context) ([]model.Candidate, []model.SkipEntry, []string, error) {
	opts := extract.Options{
		DefaultCity:   p.cfg.Extract.DefaultCity,
		MinTitleRunes: p.cfg.Extract.MinTitleRunes,
	}

	var mu sync.Mutex
	var candidates []model.Candidate
	var skips []model.SkipEntry
	var labels []string

	g, _ := errgroup.WithContext(ctx)
	for _, src := range p.cfg.Sources {
		g.Go(func() error {
			reader, err := source.ForType(src.Type)
			if err != nil {
				return err
			}

			batch, err := reader.Read(src.Path)
			if err != nil {
				if src.Required {
					return eris.Wrapf(err, "pipeline: required source %s", src.Path)
				}
				zap.L().Error("pipeline: optional source failed, continuing",
					zap.String("path", src.Path),
					zap.Error(err),
				)
				return nil
			}

			extracted, extractSkips := extractBatch(batch, opts)

			mu.Lock()
			defer mu.Unlock()
			candidates = append(candidates, extracted...)
			skips = append(skips, batch.Skips...)
			skips = append(skips, extractSkips...)
			labels = append(labels, src.Type+":"+src.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return candidates, skips, labels, nil
}

// extractBatch runs the extractor over a source batch. Pre-extracted
// candidates (JSON dumps) bypass the pattern rules but still get their
// identity and categorical fields normalized.
func extractBatch(batch source.Batch, opts extract.Options) ([]model.Candidate, []model.SkipEntry) {
	var out []model.Candidate
	var skips []model.SkipEntry

	for _, rec := range batch.Records {
		c, ok := extract.Extract(rec, opts)
		if !ok {
			skips = append(skips, model.SkipEntry{
				Identifier: rec.SourceID,
				Reason:     model.SkipNoIdentity,
			})
			continue
		}
		out = append(out, c)
	}

	for _, c := range batch.Candidates {
		if c.Slug == "" {
			c.Slug = extract.Slugify(c.Title)
		}
		if extract.SlugLetters(c.Slug) < opts.MinTitleRunes {
			skips = append(skips, model.SkipEntry{
				Identifier: c.SourceID,
				Reason:     model.SkipNoIdentity,
			})
			continue
		}
		if c.City == "" {
			c.City = extract.InferCity(c.Title+" "+c.Description, opts.DefaultCity)
		}
		if c.Status == "" {
			c.Status = extract.InferStatus(c.Description)
		}
		if c.Format == "" {
			c.Format = extract.InferFormat(c.Title + " " + c.Description)
		}
		out = append(out, c)
	}

	return out, skips
}
