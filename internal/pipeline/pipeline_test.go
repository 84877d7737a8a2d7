package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadra-invest/catalog-cli/internal/config"
	"github.com/kvadra-invest/catalog-cli/internal/model"
)

func testConfig(sources ...config.SourceConfig) *config.Config {
	return &config.Config{
		Sources: sources,
		Output: config.OutputConfig{
			SourceLabel: "batch-import",
			Country:     "Россия",
		},
		Extract: config.ExtractConfig{DefaultCity: "Сочи", MinTitleRunes: 3},
		Quality: config.QualityConfig{AcceptThreshold: 40},
		Reconcile: config.ReconcileConfig{
			FallbackAnnualYield:  0.08,
			DefaultOccupancyPct:  70,
			PaybackCapYears:      99,
			PaybackFloorYears:    0.5,
			ConsistencyTolerance: 0.01,
		},
	}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_Run_TelegramListing(t *testing.T) {
	dir := t.TempDir()
	export := `<html><body>
 <div class="message default" id="message2">
  <div class="body">
   <div class="date details" title="01.07.2024 12:30:15">12:30</div>
   <div class="text">Апарт-отель «Морская резиденция» в Сочи<br>Апартаменты от 5 млн рублей, площадью 28 кв.м, доходность 12% годовых</div>
   <a class="photo_wrap" href="photos/photo_1.jpg"><img class="photo" src="photos/photo_1.jpg"></a>
  </div>
 </div>
</body></html>`
	path := writeSource(t, dir, "messages.html", export)

	p := New(testConfig(config.SourceConfig{Type: "telegram", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Catalog.Objects, 1)
	obj := res.Catalog.Objects[0]

	assert.Equal(t, "apart-otel-morskaya-rezidentsiya", obj.Slug)
	assert.Equal(t, "Сочи", obj.City)
	assert.Equal(t, "Россия", obj.Country)
	assert.Equal(t, 5_000_000.0, obj.Price)
	assert.Equal(t, 28.0, obj.Area)
	assert.InDelta(t, 178_571, obj.PricePerM2, 1)
	assert.InDelta(t, 600_000, obj.NOIYear, 1)
	assert.Contains(t, obj.Derived, "price_per_m2")
	assert.NotContains(t, obj.Derived, "roi_percent", "12% was stated, not derived")
	assert.Equal(t, "2024-07-01", obj.UpdatedAt.Format("2006-01-02"))

	assert.Empty(t, res.Skips)
	assert.Equal(t, 1, res.Summary.Accepted)
	assert.Equal(t, 1, res.Summary.ByCity["Сочи"])
	assert.Equal(t, "batch-import", res.Catalog.Sources.Source)
}

func TestPipeline_Run_MergesComplementarySources(t *testing.T) {
	// An occupancy-only record scores far below the threshold alone but
	// completes a price/area record with the same identity.
	dir := t.TempDir()
	dump := `[
  {"title": "Гранд Каскад", "slug": "grand-kaskad", "occupancy_percent": 75},
  {"title": "Гранд Каскад", "slug": "grand-kaskad", "price": 7000000, "area": 35}
]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(config.SourceConfig{Type: "json", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Catalog.Objects, 1)
	obj := res.Catalog.Objects[0]
	assert.Equal(t, 7_000_000.0, obj.Price)
	assert.Equal(t, 35.0, obj.Area)
	assert.Equal(t, 75.0, obj.Occupancy)
	assert.InDelta(t, 75, classifyCurveMean(obj.Seasonality), 0.001,
		"curve is scaled so its mean matches the stated occupancy")
}

func classifyCurveMean(months [12]float64) float64 {
	sum := 0.0
	for _, v := range months {
		sum += v
	}
	return sum / 12
}

func TestPipeline_Run_PricelessRecordSkipped(t *testing.T) {
	dir := t.TempDir()
	dump := `[{"title": "Гранд Каскад", "price": 0, "area": 0, "rev_per_m2_month": 2000,
  "roi_percent": 12,
  "description": "Апарт-отель бизнес-класса на первой линии с собственным пляжем, управляющей компанией и программой дохода.",
  "photos": ["1.jpg"]}]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(config.SourceConfig{Type: "json", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Catalog.Objects)
	require.Len(t, res.Skips, 1)
	assert.Equal(t, model.SkipUnreconcilable, res.Skips[0].Reason)
}

func TestPipeline_Run_BelowThresholdSkipped(t *testing.T) {
	dir := t.TempDir()
	dump := `[{"title": "Гранд Каскад", "occupancy_percent": 75}]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(config.SourceConfig{Type: "json", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Catalog.Objects)
	require.Len(t, res.Skips, 1)
	assert.Equal(t, model.SkipBelowThreshold, res.Skips[0].Reason)
	assert.Equal(t, 15, res.Skips[0].QualityScore)
}

func TestPipeline_Run_BelowThresholdSkipListsAllContributors(t *testing.T) {
	// Two sources feed the same under-specified project; the skip entry
	// must account for both, not just the winning constituent.
	dir := t.TempDir()
	dump := `[
  {"title": "Гранд Каскад", "slug": "grand-kaskad", "occupancy_percent": 75},
  {"title": "Гранд Каскад", "slug": "grand-kaskad", "occupancy_percent": 80}
]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(config.SourceConfig{Type: "json", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Skips, 1)
	assert.Equal(t, model.SkipBelowThreshold, res.Skips[0].Reason)
	assert.Contains(t, res.Skips[0].Detail, "json:0")
	assert.Contains(t, res.Skips[0].Detail, "json:1")
}

func TestPipeline_Run_RequiredSourceFailureIsFatal(t *testing.T) {
	p := New(testConfig(config.SourceConfig{Type: "json", Path: "absent.json", Required: true}))
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestPipeline_Run_OptionalSourceFailureTolerated(t *testing.T) {
	dir := t.TempDir()
	dump := `[{"title": "Гранд Каскад", "price": 7000000, "area": 35}]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(
		config.SourceConfig{Type: "json", Path: path, Required: true},
		config.SourceConfig{Type: "table", Path: "absent.csv", Required: false},
	))
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Catalog.Objects, 1)
}

func TestPipeline_Run_SynthesizedSeasonality(t *testing.T) {
	dir := t.TempDir()
	dump := `[{"title": "Гранд Каскад", "price": 7000000, "area": 35,
  "occ_low_season": 40, "occ_high_season": 90}]`
	path := writeSource(t, dir, "dump.json", dump)

	p := New(testConfig(config.SourceConfig{Type: "json", Path: path, Required: true}))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Catalog.Objects, 1)
	obj := res.Catalog.Objects[0]
	assert.Equal(t, 40.0, obj.Seasonality[1])
	assert.Equal(t, 90.0, obj.Seasonality[6])
	assert.Contains(t, obj.Derived, "seasonality")
}
