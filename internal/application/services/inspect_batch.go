package services

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/reglet-dev/batchqc/internal/application/ports"
)

// InspectBatchUseCase builds the record table from data files and reports
// it before and after each extra row.
type InspectBatchUseCase struct {
	loader *batchLoader
	logger *slog.Logger
}

// NewInspectBatchUseCase creates a new inspect batch use case.
func NewInspectBatchUseCase(rowSources ports.RowSourceFactory, logger *slog.Logger) *InspectBatchUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectBatchUseCase{
		loader: &batchLoader{sources: rowSources, logger: logger},
		logger: logger,
	}
}

// Execute returns one snapshot per stage. Earlier snapshots are unaffected
// by later extra rows.
func (uc *InspectBatchUseCase) Execute(ctx context.Context, req dto.InspectBatchRequest) (*dto.InspectBatchResponse, error) {
	if len(req.DataPaths) == 0 && len(req.ExtraRows) == 0 {
		return nil, apperrors.NewValidationError("data", "no data files or rows given")
	}

	stages, err := uc.loader.load(ctx, req.DataPaths, req.ExtraRows, req.Ingest)
	if err != nil {
		return nil, err
	}

	snapshots := make([]dto.Snapshot, 0, len(stages))
	for i, analyzer := range stages {
		label := "data"
		if i > 0 {
			records := analyzer.Collection()
			label = "after adding " + records.At(records.Len()-1).Identifier()
		}
		snapshots = append(snapshots, dto.Snapshot{Label: label, Table: analyzer.Table()})
	}

	uc.logger.Info("batch inspected", "snapshots", len(snapshots), "records", stages[len(stages)-1].Len())
	return &dto.InspectBatchResponse{Snapshots: snapshots}, nil
}
