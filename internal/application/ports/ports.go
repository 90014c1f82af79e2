// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
)

// ProfileLoader loads QC profiles from storage.
type ProfileLoader interface {
	LoadProfile(path string) (*entities.QCProfile, error)
}

// RowSource yields the raw rows of one data file.
// Rows are returned unvalidated; validation belongs to the domain.
type RowSource interface {
	ReadRows(ctx context.Context) ([]any, error)
}

// RowSourceFactory opens a RowSource for a path, choosing the reader by extension.
type RowSourceFactory interface {
	Open(path string, options dto.IngestOptions) (RowSource, error)
}

// FormatterOptions configures an OutputFormatter.
type FormatterOptions struct {
	ProfilePath string
	Indent      bool
	Color       bool
}

// OutputFormatter formats check results.
type OutputFormatter interface {
	Format(result *execution.CheckResult) error
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	CreateRows(format string, writer io.Writer, options FormatterOptions) (RowsFormatter, error)
	SupportedFormats() []string
	SupportedRowFormats() []string
}

// RowsFormatter renders denormalized record tables.
type RowsFormatter interface {
	FormatRows(snapshots []dto.Snapshot) error
}
