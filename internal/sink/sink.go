// Package sink serializes the canonical collection and the skip report
// to their JSON artifacts.
package sink

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// WriteCatalog writes the `{ objects, sources }` document consumed by
// the site.
func WriteCatalog(path string, catalog model.Catalog) error {
	if err := writeJSON(path, catalog); err != nil {
		return eris.Wrap(err, "sink: write catalog")
	}
	zap.L().Info("sink: catalog written",
		zap.String("path", path),
		zap.Int("objects", len(catalog.Objects)),
	)
	return nil
}

// WriteSkips writes the sibling skip-report document. An empty report is
// still written so a clean run leaves a fresh artifact.
func WriteSkips(path string, skips []model.SkipEntry) error {
	if skips == nil {
		skips = []model.SkipEntry{}
	}
	if err := writeJSON(path, skips); err != nil {
		return eris.Wrap(err, "sink: write skip report")
	}
	zap.L().Info("sink: skip report written",
		zap.String("path", path),
		zap.Int("entries", len(skips)),
	)
	return nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "mkdir %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return eris.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
