package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/services"
)

// batchLoader reads data files and builds analyzers from them.
// Files are read one after another; the first failure aborts.
type batchLoader struct {
	sources ports.RowSourceFactory
	logger  *slog.Logger
}

// load builds the analyzer over every data file, then extends it with each
// extra row. It returns one analyzer per stage: the data files first, then
// one more per extra row.
func (l *batchLoader) load(
	ctx context.Context,
	paths []string,
	extra []entities.Row,
	options dto.IngestOptions,
) ([]*services.SeriesAnalyzer, error) {
	batches, err := l.readBatches(ctx, paths, options)
	if err != nil {
		return nil, err
	}

	analyzer, err := services.NewSeriesAnalyzer(batches...)
	if err != nil {
		return nil, invalidBatchError(err, paths, batches)
	}

	l.logger.Info("records validated", "records", analyzer.Len(), "files", len(paths))

	stages := make([]*services.SeriesAnalyzer, 0, len(extra)+1)
	stages = append(stages, analyzer)

	for i, row := range extra {
		next, err := analyzer.Extend(row)
		if err != nil {
			return nil, apperrors.WrapValidationError("add", fmt.Sprintf("invalid --add row %d", i+1), err)
		}
		l.logger.Debug("row added", "row", i+1, "records", next.Len())
		analyzer = next
		stages = append(stages, analyzer)
	}

	return stages, nil
}

func (l *batchLoader) readBatches(ctx context.Context, paths []string, options dto.IngestOptions) ([][]any, error) {
	batches := make([][]any, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source, err := l.sources.Open(path, options)
		if err != nil {
			return nil, apperrors.NewIngestError(path, "failed to open", err)
		}

		rows, err := source.ReadRows(ctx)
		if err != nil {
			return nil, apperrors.NewIngestError(path, "failed to read rows", err)
		}

		l.logger.Debug("rows read", "path", path, "rows", len(rows))
		batches = append(batches, rows)
	}
	return batches, nil
}

// invalidBatchError maps the flat row index of a construction failure back
// to the file and data row within it. Data rows are counted as read, after
// the header, comments and blank lines are dropped, so they are not file
// line numbers.
func invalidBatchError(err error, paths []string, batches [][]any) error {
	var rowErr *entities.RowError
	if !errors.As(err, &rowErr) {
		return apperrors.WrapValidationError("data", "invalid batch data", err)
	}

	offset := rowErr.Index
	for i, batch := range batches {
		if offset < len(batch) {
			return apperrors.WrapValidationError(
				"data",
				fmt.Sprintf("invalid data row %d of %s", offset+1, paths[i]),
				err,
			)
		}
		offset -= len(batch)
	}
	return apperrors.WrapValidationError("data", "invalid batch data", err)
}
