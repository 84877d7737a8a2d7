package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/config"
	"github.com/kvadra-invest/catalog-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "catalog-cli",
	Short: "Investment property catalog ingestion pipeline",
	Long:  "Reads property listings from Telegram exports, spreadsheets and JSON dumps, normalizes them into a single catalog, and writes the site artifacts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func initStore() (store.Store, error) {
	return store.NewSQLite(cfg.Store.Path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(runsCmd)
}
