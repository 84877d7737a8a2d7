package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/pipeline"
	"github.com/kvadra-invest/catalog-cli/internal/sink"
	"github.com/kvadra-invest/catalog-cli/internal/store"
)

var ingestNoStore bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest all configured sources and write the catalog artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		started := time.Now().UTC()

		if len(cfg.Sources) == 0 {
			return eris.New("ingest: no sources configured")
		}

		p := pipeline.New(cfg)
		res, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "ingest: pipeline")
		}

		if err := sink.WriteCatalog(cfg.Output.CatalogPath, res.Catalog); err != nil {
			return err
		}
		if err := sink.WriteSkips(cfg.Output.SkipsPath, res.Skips); err != nil {
			return err
		}

		if !ingestNoStore {
			if err := persistRun(cmd, started, res); err != nil {
				// Run history is an audit trail, the artifacts are already
				// on disk, so a store failure does not fail the run.
				zap.L().Warn("ingest: run history not persisted", zap.Error(err))
			}
		}

		fmt.Fprint(os.Stdout, pipeline.FormatSummary(res.Summary))
		return nil
	},
}

func persistRun(cmd *cobra.Command, started time.Time, res *pipeline.Result) error {
	ctx := cmd.Context()

	st, err := initStore()
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	return st.SaveRun(ctx, store.Run{
		ID:         res.Summary.RunID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Summary:    res.Summary,
	}, res.Skips)
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestNoStore, "no-store", false, "skip writing run history to the local database")
}
