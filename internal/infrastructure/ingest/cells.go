// Package ingest reads raw batch rows from data files.
//
// Readers never validate rows; they only turn text cells into values the
// domain validator understands. Column one stays a string, numeric columns
// become float64 when they parse, and anything else is passed through so the
// validator can report it.
package ingest

import (
	"strconv"
	"strings"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// Header detection modes.
const (
	HeaderAuto   = "auto"
	HeaderAlways = "always"
	HeaderNever  = "never"
)

// ParseFields converts the text cells of one row.
// Empty cells become nil.
func ParseFields(fields []string) []any {
	row := make([]any, len(fields))
	for i, field := range fields {
		row[i] = parseCell(field, i)
	}
	return row
}

func parseCell(field string, column int) any {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	if column == 0 {
		return field
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	return field
}

// ParseRow parses an inline row such as "G03-01,789.01,129.00,0.00008".
func ParseRow(s string) entities.Row {
	return entities.Row(ParseFields(strings.Split(s, ",")))
}

// skipHeader reports whether the first row of a table is a header.
// In auto mode the row is a header only when every weight cell holds
// non-numeric text. A data row with one bad or missing weight is kept so
// validation can reject it.
func skipHeader(first []string, mode string) bool {
	switch mode {
	case HeaderAlways:
		return true
	case HeaderNever:
		return false
	}

	if len(first) < 2 {
		return false
	}
	for _, field := range first[1:min(len(first), 4)] {
		cell := strings.TrimSpace(field)
		if cell == "" {
			return false
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			return false
		}
	}
	return true
}

// tableRows converts text rows, dropping the header and blank lines.
func tableRows(records [][]string, header string) []any {
	if len(records) > 0 && skipHeader(records[0], header) {
		records = records[1:]
	}

	rows := make([]any, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		rows = append(rows, ParseFields(record))
	}
	return rows
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
