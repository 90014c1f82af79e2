package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVSource reads delimited text files.
type CSVSource struct {
	path      string
	delimiter rune
	header    string
}

// NewCSVSource creates a delimited text source.
func NewCSVSource(path string, delimiter rune, header string) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{path: path, delimiter: delimiter, header: header}
}

// ReadRows implements ports.RowSource.
func (s *CSVSource) ReadRows(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = s.delimiter
	reader.Comment = '#'
	reader.FieldsPerRecord = -1 // column count is checked by row validation
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}

	return tableRows(records, s.header), nil
}
