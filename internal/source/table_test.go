package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

const tableCSV = `Название,Город,Цена,Площадь,Доходность,Низкий сезон,Высокий сезон,Этаж
Гранд Каскад,Анапа,"7 000 000",35,"11%",45,90,12
Морская резиденция,Сочи,"5,2 млн",28,,,,"3"
,,,,,,,
`

func TestTableReader_ReadCSV(t *testing.T) {
	path := writeFixture(t, "sheet.csv", tableCSV)

	batch, err := (&TableReader{}).Read(path)
	require.NoError(t, err)

	require.Len(t, batch.Records, 2)
	rec := batch.Records[0]

	assert.Equal(t, "table:sheet.csv:2", rec.SourceID)
	assert.Equal(t, model.SourceTable, rec.Source)
	assert.Equal(t, "Гранд Каскад", rec.Title)
	assert.Equal(t, "Анапа", rec.City)

	require.NotNil(t, rec.Price)
	assert.Equal(t, 7_000_000.0, *rec.Price)
	require.NotNil(t, rec.Area)
	assert.Equal(t, 35.0, *rec.Area)
	require.NotNil(t, rec.ROIPercent)
	assert.Equal(t, 11.0, *rec.ROIPercent)
	require.NotNil(t, rec.OccLowSeason)
	assert.Equal(t, 45.0, *rec.OccLowSeason)
	require.NotNil(t, rec.OccHighSeason)
	assert.Equal(t, 90.0, *rec.OccHighSeason)

	// "Этаж" is not a known column and must be dropped.
	assert.Nil(t, rec.PricePerM2)
}

func TestTableReader_UnparseableCellDropsFieldNotRow(t *testing.T) {
	path := writeFixture(t, "sheet.csv", tableCSV)

	batch, err := (&TableReader{}).Read(path)
	require.NoError(t, err)

	// "5,2 млн" is not a plain number and the cell is dropped; the row
	// survives on its title and area.
	rec := batch.Records[1]
	assert.Equal(t, "Морская резиденция", rec.Title)
	assert.Nil(t, rec.Price)
	require.NotNil(t, rec.Area)
	assert.Equal(t, 28.0, *rec.Area)
}

func TestTableReader_EmptyRowSkipped(t *testing.T) {
	path := writeFixture(t, "sheet.csv", tableCSV)

	batch, err := (&TableReader{}).Read(path)
	require.NoError(t, err)

	require.Len(t, batch.Skips, 1)
	assert.Equal(t, model.SkipMalformed, batch.Skips[0].Reason)
	assert.Equal(t, "table:sheet.csv:4", batch.Skips[0].Identifier)
}

func TestTableReader_EnglishHeaders(t *testing.T) {
	csv := "Title,City,Price,Area\nRiviera Park,Сочи,6000000,40\n"
	path := writeFixture(t, "sheet.csv", csv)

	batch, err := (&TableReader{}).Read(path)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Riviera Park", batch.Records[0].Title)
	require.NotNil(t, batch.Records[0].Price)
	assert.Equal(t, 6_000_000.0, *batch.Records[0].Price)
}

func TestTableReader_MissingHeader(t *testing.T) {
	path := writeFixture(t, "empty.csv", "")
	_, err := (&TableReader{}).Read(path)
	assert.Error(t, err)
}

func TestMapHeader_CaseAndWhitespaceTolerant(t *testing.T) {
	fields := mapHeader([]string{" НАЗВАНИЕ ", "цена", "Unknown", "ROI"})
	assert.Equal(t, []string{"title", "price", "", "roi_percent"}, fields)
}

func TestParseCellNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"7 000 000", 7_000_000, true},
		{"11%", 11, true},
		{"185 000 ₽", 185_000, true},
		{"28,5", 28.5, true},
		{"5,2 млн", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		v, ok := parseCellNumber(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, v, tc.in)
		}
	}
}
