// Package source holds the format-specific adapters that turn raw input
// files into ordered record sequences. Adapters translate shape only;
// validation and scoring happen downstream. A malformed unit inside a
// file becomes a skip entry, a missing or unreadable file is an error
// for that source alone.
package source

import (
	"github.com/rotisserie/eris"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// Batch is what one source file produces. Text and tabular adapters emit
// RawRecords; the JSON-dump adapter emits pre-extracted Candidates that
// bypass the field extractor.
type Batch struct {
	Records    []model.RawRecord
	Candidates []model.Candidate
	Skips      []model.SkipEntry
}

// Reader is one input-shape adapter.
type Reader interface {
	Read(path string) (Batch, error)
}

// ForType returns the adapter for a configured source type.
func ForType(sourceType string) (Reader, error) {
	switch sourceType {
	case "telegram":
		return &TelegramReader{}, nil
	case "table":
		return &TableReader{}, nil
	case "json":
		return NewJSONReader()
	default:
		return nil, eris.Errorf("source: unknown source type %q", sourceType)
	}
}
