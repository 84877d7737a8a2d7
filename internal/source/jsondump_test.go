package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

func TestJSONReader_BareArray(t *testing.T) {
	dump := `[
  {"title": "Морская резиденция", "city": "Сочи", "price": 5000000, "area": 28},
  {"title": "Гранд Каскад", "occupancy_percent": 75}
]`
	path := writeFixture(t, "dump.json", dump)

	r, err := NewJSONReader()
	require.NoError(t, err)

	batch, err := r.Read(path)
	require.NoError(t, err)
	require.Len(t, batch.Candidates, 2)
	assert.Empty(t, batch.Skips)

	c := batch.Candidates[0]
	assert.Equal(t, "json:0", c.SourceID)
	assert.Equal(t, model.SourceJSON, c.Source)
	assert.Equal(t, "Сочи", c.City)
	require.NotNil(t, c.Price)
	assert.Equal(t, 5_000_000.0, *c.Price)
}

func TestJSONReader_ObjectsWrapper(t *testing.T) {
	dump := `{"objects": [{"title": "Морская резиденция", "price": 5000000}]}`
	path := writeFixture(t, "dump.json", dump)

	r, err := NewJSONReader()
	require.NoError(t, err)

	batch, err := r.Read(path)
	require.NoError(t, err)
	require.Len(t, batch.Candidates, 1)
}

func TestJSONReader_SchemaViolationsBecomeSkips(t *testing.T) {
	dump := `[
  {"title": "ok title", "price": 5000000},
  {"city": "Сочи"},
  {"title": "ab"},
  {"title": "занятость за пределами", "occupancy_percent": 150}
]`
	path := writeFixture(t, "dump.json", dump)

	r, err := NewJSONReader()
	require.NoError(t, err)

	batch, err := r.Read(path)
	require.NoError(t, err)

	require.Len(t, batch.Candidates, 1)
	require.Len(t, batch.Skips, 3)
	for _, sk := range batch.Skips {
		assert.Equal(t, model.SkipInvalidSchema, sk.Reason)
	}
	assert.Equal(t, "json:1", batch.Skips[0].Identifier)
}

func TestJSONReader_UnparseableFileIsFatalForSource(t *testing.T) {
	path := writeFixture(t, "dump.json", "{not json")

	r, err := NewJSONReader()
	require.NoError(t, err)

	_, err = r.Read(path)
	assert.Error(t, err)
}
