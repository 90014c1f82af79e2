package dto

import (
	"time"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
)

// CheckBatchResponse contains the result of checking batch data.
type CheckBatchResponse struct {
	// Result contains the detailed per-series results
	Result *execution.CheckResult

	// Table is the denormalized record table the series were evaluated on
	Table [][]any

	// Metadata contains response metadata
	Metadata ResponseMetadata

	// Diagnostics contains additional diagnostic information
	Diagnostics Diagnostics
}

// InspectBatchResponse holds the record table after each stage.
type InspectBatchResponse struct {
	// Snapshots[0] is the table built from the data files; each extra row adds one more.
	Snapshots []Snapshot
}

// Snapshot is the denormalized record table at one stage.
type Snapshot struct {
	Label string
	Table [][]any
}

// VerifySeriesResponse holds the outcome of one tolerance query.
type VerifySeriesResponse struct {
	Passed     bool
	Evaluation execution.SeriesEvaluation
	Message    string
	// Result wraps the query as a one-series check result for the formatters
	Result *execution.CheckResult
}

// DraftProfileResponse holds a generated profile and what it was derived from.
type DraftProfileResponse struct {
	Profile *entities.QCProfile
	// Observations are per-series statistics in profile order
	Observations []SeriesObservation
}

// SeriesObservation summarizes one series as seen in the data.
type SeriesObservation struct {
	Code          string
	Units         int
	MeanActive    float64
	MeanImpurity  float64
	ImpurityRatio float64
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}

// Diagnostics contains diagnostic information about the run.
type Diagnostics struct {
	// Warnings are non-fatal issues encountered
	Warnings []string

	// ObservedSeries lists the series codes present in the data
	ObservedSeries []string
}
