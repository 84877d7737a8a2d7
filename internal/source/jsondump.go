package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// candidateSchema validates hand-authored dump objects before they are
// trusted as pre-extracted candidates. Loose on purpose: only the
// identity field is required, numerics just have to be numeric.
const candidateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title":             {"type": "string", "minLength": 3},
    "slug":              {"type": "string"},
    "city":              {"type": "string"},
    "format":            {"type": "string"},
    "status":            {"enum": ["active", "construction", "planning", ""]},
    "description":       {"type": "string"},
    "photos":            {"type": "array", "items": {"type": "string"}},
    "price":             {"type": "number", "minimum": 0},
    "area":              {"type": "number", "minimum": 0},
    "price_per_m2":      {"type": "number", "minimum": 0},
    "roi_percent":       {"type": "number", "minimum": 0},
    "occupancy_percent": {"type": "number", "minimum": 0, "maximum": 100},
    "adr":               {"type": "number", "minimum": 0},
    "payback_years":     {"type": "number", "minimum": 0},
    "rev_per_m2_month":  {"type": "number", "minimum": 0},
    "occ_low_season":    {"type": "number", "minimum": 0, "maximum": 100},
    "occ_high_season":   {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

// dumpWrapper is the `{ "objects": [...] }` form of a dump file.
type dumpWrapper struct {
	Objects []json.RawMessage `json:"objects"`
}

// JSONReader parses a flat JSON array or an {objects: [...]} wrapper of
// already-structured records. Its output skips the field extractor.
type JSONReader struct {
	schema *jsonschema.Schema
}

// NewJSONReader compiles the candidate schema once per reader.
func NewJSONReader() (*JSONReader, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("candidate.schema.json", strings.NewReader(candidateSchema)); err != nil {
		return nil, eris.Wrap(err, "json: add schema resource")
	}
	schema, err := compiler.Compile("candidate.schema.json")
	if err != nil {
		return nil, eris.Wrap(err, "json: compile schema")
	}
	return &JSONReader{schema: schema}, nil
}

// Read validates each object against the schema; invalid objects become
// skip entries, valid ones become Candidates.
func (j *JSONReader) Read(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, eris.Wrapf(err, "json: read %s", path)
	}

	objects, err := splitObjects(data)
	if err != nil {
		return Batch{}, eris.Wrapf(err, "json: parse %s", path)
	}

	var batch Batch
	for i, raw := range objects {
		sourceID := fmt.Sprintf("json:%d", i)

		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			batch.Skips = append(batch.Skips, model.SkipEntry{
				Identifier: sourceID,
				Reason:     model.SkipMalformed,
				Detail:     err.Error(),
			})
			continue
		}
		if err := j.schema.Validate(generic); err != nil {
			batch.Skips = append(batch.Skips, model.SkipEntry{
				Identifier: sourceID,
				Reason:     model.SkipInvalidSchema,
				Detail:     err.Error(),
			})
			continue
		}

		var c model.Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			batch.Skips = append(batch.Skips, model.SkipEntry{
				Identifier: sourceID,
				Reason:     model.SkipMalformed,
				Detail:     err.Error(),
			})
			continue
		}
		c.SourceID = sourceID
		c.Source = model.SourceJSON
		batch.Candidates = append(batch.Candidates, c)
	}

	zap.L().Info("json: dump read",
		zap.String("path", path),
		zap.Int("candidates", len(batch.Candidates)),
		zap.Int("skipped", len(batch.Skips)),
	)
	return batch, nil
}

// splitObjects accepts either a bare array or the objects wrapper.
func splitObjects(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	}
	var wrapper dumpWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Objects, nil
}
