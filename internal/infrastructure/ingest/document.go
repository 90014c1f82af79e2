package ingest

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Column keys accepted for mapping rows in YAML and JSON documents.
var documentColumns = []string{"identifier", "total", "active", "impurities"}

// DocumentSource reads YAML or JSON documents holding a top-level sequence
// of rows. A row is a sequence of four cells, or a mapping with the keys
// identifier, total, active and impurities.
type DocumentSource struct {
	path string
}

// NewDocumentSource creates a YAML/JSON source.
func NewDocumentSource(path string) *DocumentSource {
	return &DocumentSource{path: path}
}

// ReadRows implements ports.RowSource.
func (s *DocumentSource) ReadRows(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	var rows []any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: expected a sequence of rows: %w", err)
	}

	for i, row := range rows {
		if m, ok := row.(map[string]any); ok {
			rows[i] = mappingRow(m)
		}
	}
	return rows, nil
}

// mappingRow orders a keyed row into columns. A mapping with any other key
// set is returned unchanged and rejected by row validation.
func mappingRow(m map[string]any) any {
	row := make([]any, 0, len(m))
	for _, key := range documentColumns {
		if v, ok := m[key]; ok {
			row = append(row, v)
		}
	}
	if len(row) != len(m) {
		return m
	}
	return row
}
