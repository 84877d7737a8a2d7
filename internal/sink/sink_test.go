package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

func TestWriteCatalog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "objects.json")
	catalog := model.Catalog{
		Objects: []model.CanonicalProject{{
			Slug:  "morskaya-rezidentsiya",
			Title: "Морская резиденция",
			City:  "Сочи",
			Price: 5_000_000,
		}},
		Sources: model.CatalogSources{
			UpdatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
			Source:    "batch-import",
		},
	}

	require.NoError(t, WriteCatalog(path, catalog))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Catalog
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Objects, 1)
	assert.Equal(t, "morskaya-rezidentsiya", got.Objects[0].Slug)
	assert.Equal(t, "batch-import", got.Sources.Source)
}

func TestWriteSkips_EmptyReportIsAnArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skips.json")
	require.NoError(t, WriteSkips(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data[:2]))
}

func TestWriteSkips_Entries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skips.json")
	skips := []model.SkipEntry{{
		Identifier:   "json:1",
		Reason:       model.SkipUnreconcilable,
		QualityScore: 55,
		Detail:       "no price present or derivable",
	}}
	require.NoError(t, WriteSkips(path, skips))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []model.SkipEntry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, skips, got)
}

func TestWriteCatalog_UnwritablePath(t *testing.T) {
	err := WriteCatalog(string([]byte{0}), model.Catalog{})
	assert.Error(t, err)
}
