package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// headerAliases maps case- and language-tolerant column names onto
// record fields. Unknown columns are dropped, not an error.
var headerAliases = map[string]string{
	"название":      "title",
	"объект":        "title",
	"проект":        "title",
	"title":         "title",
	"name":          "title",
	"город":         "city",
	"city":          "city",
	"цена":          "price",
	"стоимость":     "price",
	"price":         "price",
	"площадь":       "area",
	"area":          "area",
	"цена за м2":    "price_per_m2",
	"цена м2":       "price_per_m2",
	"price_per_m2":  "price_per_m2",
	"доходность":    "roi_percent",
	"roi":           "roi_percent",
	"загрузка":      "occupancy_percent",
	"occupancy":     "occupancy_percent",
	"adr":           "adr",
	"окупаемость":   "payback_years",
	"payback":       "payback_years",
	"доход с м2":    "rev_per_m2_month",
	"rev_per_m2":    "rev_per_m2_month",
	"низкий сезон":  "occ_low_season",
	"высокий сезон": "occ_high_season",
	"описание":      "description",
	"description":   "description",
	"фото":          "photos",
	"photos":        "photos",
	"статус":        "status",
	"status":        "status",
}

// TableReader parses spreadsheet sources: XLSX sheets or CSV files with
// a first header row.
type TableReader struct{}

// Read maps known header names onto RawRecord fields, one record per
// data row. A malformed row is skipped with a reason, never fatal.
func (t *TableReader) Read(path string) (Batch, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return Batch{}, err
	}
	if len(rows) == 0 {
		return Batch{}, eris.Errorf("table: %s has no header row", path)
	}

	fields := mapHeader(rows[0])
	var batch Batch
	for i, row := range rows[1:] {
		sourceID := fmt.Sprintf("table:%s:%d", filepath.Base(path), i+2)
		rec, ok := rowToRecord(row, fields, sourceID)
		if !ok {
			batch.Skips = append(batch.Skips, model.SkipEntry{
				Identifier: sourceID,
				Reason:     model.SkipMalformed,
				Detail:     "row has neither a title nor numeric fields",
			})
			continue
		}
		batch.Records = append(batch.Records, rec)
	}

	zap.L().Info("table: sheet read",
		zap.String("path", path),
		zap.Int("records", len(batch.Records)),
		zap.Int("skipped", len(batch.Skips)),
	)
	return batch, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("table: %s has no sheets", path)
	}
	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open csv %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "table: read csv %s", path)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// mapHeader resolves each column index to a known field name, or "" for
// columns to drop.
func mapHeader(header []string) []string {
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = headerAliases[strings.ToLower(strings.TrimSpace(h))]
	}
	return fields
}

func rowToRecord(row []string, fields []string, sourceID string) (model.RawRecord, bool) {
	rec := model.RawRecord{
		SourceID: sourceID,
		Source:   model.SourceTable,
	}
	hasNumeric := false

	for i, cell := range row {
		if i >= len(fields) || fields[i] == "" {
			continue
		}
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		switch fields[i] {
		case "title":
			rec.Title = cell
		case "city":
			rec.City = cell
		case "description":
			rec.Body = cell
		case "status":
			rec.Body += "\n" + cell // status keywords picked up by the extractor
		case "photos":
			rec.Photos = append(rec.Photos, splitPhotoList(cell)...)
		default:
			v, ok := parseCellNumber(cell)
			if !ok {
				continue // unparseable cell dropped, row survives
			}
			hasNumeric = true
			switch fields[i] {
			case "price":
				rec.Price = model.Float(v)
			case "area":
				rec.Area = model.Float(v)
			case "price_per_m2":
				rec.PricePerM2 = model.Float(v)
			case "roi_percent":
				rec.ROIPercent = model.Float(v)
			case "occupancy_percent":
				rec.OccupancyPercent = model.Float(v)
			case "adr":
				rec.ADR = model.Float(v)
			case "payback_years":
				rec.PaybackYears = model.Float(v)
			case "rev_per_m2_month":
				rec.RevPerM2Month = model.Float(v)
			case "occ_low_season":
				rec.OccLowSeason = model.Float(v)
			case "occ_high_season":
				rec.OccHighSeason = model.Float(v)
			}
		}
	}

	if rec.Title == "" && !hasNumeric {
		return model.RawRecord{}, false
	}
	return rec, true
}

var cellNumberCleaner = strings.NewReplacer(" ", "", " ", "", ",", ".", "₽", "", "%", "")

// parseCellNumber reads a spreadsheet numeric cell, tolerating currency
// signs, percent signs, and Russian separators.
func parseCellNumber(s string) (float64, bool) {
	cleaned := cellNumberCleaner.Replace(s)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitPhotoList(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n'
	})
	var photos []string
	for _, p := range parts {
		if p != "" {
			photos = append(photos, p)
		}
	}
	return photos
}
