// Package dto contains data transfer objects for application layer use cases.
package dto

import (
	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// CheckBatchRequest encapsulates all inputs needed to check batch data against a QC profile.
type CheckBatchRequest struct {
	ProfilePath string
	DataPaths   []string
	// ExtraRows are appended one by one after the data files, as with --add.
	ExtraRows []entities.Row
	Filters   FilterOptions
	Ingest    IngestOptions
	Metadata  RequestMetadata
}

// InspectBatchRequest encapsulates inputs for printing the record table.
type InspectBatchRequest struct {
	DataPaths []string
	ExtraRows []entities.Row
	Ingest    IngestOptions
}

// VerifySeriesRequest is a single ad-hoc tolerance query against batch data.
type VerifySeriesRequest struct {
	DataPaths []string
	ExtraRows []entities.Row
	Ingest    IngestOptions

	Series          string
	ExpectedActive  float64
	ActiveTolerance float64
	AllowedImpurity float64
}

// DraftProfileRequest asks for a starter QC profile derived from batch data.
type DraftProfileRequest struct {
	DataPaths []string
	Ingest    IngestOptions

	Name            string
	Version         string
	Description     string
	ActiveTolerance float64
	AllowedImpurity float64
	Severity        string
	Tags            []string
}

// FilterOptions defines filters for series selection.
type FilterOptions struct {
	FilterExpression  string
	IncludeTags       []string
	IncludeSeverities []string
	IncludeSeries     []string
	ExcludeTags       []string
	ExcludeSeries     []string
}

// IsEmpty reports whether no filter is set.
func (f FilterOptions) IsEmpty() bool {
	return f.FilterExpression == "" &&
		len(f.IncludeTags) == 0 &&
		len(f.IncludeSeverities) == 0 &&
		len(f.IncludeSeries) == 0 &&
		len(f.ExcludeTags) == 0 &&
		len(f.ExcludeSeries) == 0
}

// IngestOptions controls how row files are read.
type IngestOptions struct {
	// Sheet selects the spreadsheet sheet for .xlsx input (default: first sheet)
	Sheet string

	// Delimiter overrides the CSV field separator (default: ',' for .csv, tab for .tsv)
	Delimiter rune

	// Header is one of auto, always, never
	Header string
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}
