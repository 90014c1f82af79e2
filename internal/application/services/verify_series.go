package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/services"
)

// AdHocProfileName names the result of a query run without a profile.
const AdHocProfileName = "ad-hoc"

// VerifySeriesUseCase answers one tolerance query without a profile.
type VerifySeriesUseCase struct {
	loader     *batchLoader
	aggregator *services.StatusAggregator
	logger     *slog.Logger
}

// NewVerifySeriesUseCase creates a new verify series use case.
func NewVerifySeriesUseCase(rowSources ports.RowSourceFactory, logger *slog.Logger) *VerifySeriesUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifySeriesUseCase{
		loader:     &batchLoader{sources: rowSources, logger: logger},
		aggregator: services.NewStatusAggregator(),
		logger:     logger,
	}
}

// Execute loads the data, applies extra rows and evaluates the series.
// An unknown series is returned as an error, not a failed verdict.
func (uc *VerifySeriesUseCase) Execute(ctx context.Context, req dto.VerifySeriesRequest) (*dto.VerifySeriesResponse, error) {
	if req.Series == "" {
		return nil, apperrors.NewValidationError("series", "a series code is required")
	}
	if len(req.DataPaths) == 0 && len(req.ExtraRows) == 0 {
		return nil, apperrors.NewValidationError("data", "no data files or rows given")
	}

	stages, err := uc.loader.load(ctx, req.DataPaths, req.ExtraRows, req.Ingest)
	if err != nil {
		return nil, err
	}
	analyzer := stages[len(stages)-1]

	eval, err := analyzer.EvaluateSeries(req.Series, req.ExpectedActive, req.ActiveTolerance, req.AllowedImpurity)
	if err != nil {
		return nil, err
	}

	status, message := uc.aggregator.StatusFromEvaluation(eval)

	result := execution.NewCheckResult(AdHocProfileName, "0.0.0")
	result.AddSeriesResult(execution.SeriesResult{
		Code:       eval.Series.String(),
		Name:       fmt.Sprintf("Series %s", eval.Series),
		Status:     status,
		Message:    message,
		Evaluation: &eval,
	})
	result.Status = status
	result.RecordCount = analyzer.Len()
	result.Sources = req.DataPaths
	result.Finalize()

	uc.logger.Info("series verified",
		"series", req.Series,
		"units", eval.Units,
		"status", status)

	return &dto.VerifySeriesResponse{
		Passed:     eval.Passed(),
		Evaluation: eval,
		Message:    message,
		Result:     result,
	}, nil
}
