// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/services"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// CheckBatchUseCase orchestrates the complete batch check workflow.
// This is a pure application layer component that depends only on ports.
type CheckBatchUseCase struct {
	profileLoader   ports.ProfileLoader
	profileCompiler *services.ProfileCompiler
	loader          *batchLoader
	aggregator      *services.StatusAggregator
	toolVersion     string
	logger          *slog.Logger
}

// NewCheckBatchUseCase creates a new check batch use case.
func NewCheckBatchUseCase(
	profileLoader ports.ProfileLoader,
	profileCompiler *services.ProfileCompiler,
	rowSources ports.RowSourceFactory,
	aggregator *services.StatusAggregator,
	toolVersion string,
	logger *slog.Logger,
) *CheckBatchUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if profileCompiler == nil {
		profileCompiler = services.NewProfileCompiler()
	}
	if aggregator == nil {
		aggregator = services.NewStatusAggregator()
	}

	return &CheckBatchUseCase{
		profileLoader:   profileLoader,
		profileCompiler: profileCompiler,
		loader:          &batchLoader{sources: rowSources, logger: logger},
		aggregator:      aggregator,
		toolVersion:     toolVersion,
		logger:          logger,
	}
}

// Execute runs the complete check workflow.
func (uc *CheckBatchUseCase) Execute(ctx context.Context, req dto.CheckBatchRequest) (*dto.CheckBatchResponse, error) {
	startTime := time.Now()

	uc.logger.Info("loading profile", "path", req.ProfilePath)

	// 1. Load and compile profile
	profile, err := uc.loadAndCompileProfile(req.ProfilePath)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("profile compiled and validated",
		"name", profile.Metadata.Name,
		"version", profile.Metadata.Version,
		"series", profile.SeriesCount())

	// 2. Filters
	filter, err := uc.buildFilter(profile, req.Filters)
	if err != nil {
		return nil, err
	}

	// 3-4. Read data, build and extend the analyzer
	if len(req.DataPaths) == 0 && len(req.ExtraRows) == 0 {
		return nil, apperrors.NewValidationError("data", "no data files or rows given")
	}
	stages, err := uc.loader.load(ctx, req.DataPaths, req.ExtraRows, req.Ingest)
	if err != nil {
		return nil, err
	}
	analyzer := stages[len(stages)-1]

	// 5. Evaluate
	result := uc.evaluate(profile, analyzer, filter)
	result.Sources = req.DataPaths

	uc.logger.Info("check complete",
		"run_id", result.RunID.String(),
		"status", string(result.Status),
		"duration", result.Duration,
		"total_series", result.Summary.TotalSeries,
		"passed", result.Summary.PassedSeries,
		"failed", result.Summary.FailedSeries,
		"errors", result.Summary.ErrorSeries,
		"skipped", result.Summary.SkippedSeries)

	return uc.buildResponse(req, startTime, result, analyzer, profile), nil
}

func (uc *CheckBatchUseCase) loadAndCompileProfile(path string) (*entities.QCProfile, error) {
	raw, err := uc.profileLoader.LoadProfile(path)
	if err != nil {
		return nil, apperrors.WrapValidationError("profile", "failed to load profile", err)
	}

	profile, err := uc.profileCompiler.Compile(raw)
	if err != nil {
		return nil, apperrors.WrapValidationError("profile", "compilation failed", err)
	}
	return profile, nil
}

func (uc *CheckBatchUseCase) evaluate(
	profile *entities.QCProfile,
	analyzer *services.SeriesAnalyzer,
	filter *services.SeriesFilter,
) *execution.CheckResult {
	result := execution.NewCheckResult(profile.Metadata.Name, profile.Metadata.Version)
	result.ToolVersion = uc.toolVersion
	result.RecordCount = analyzer.Len()

	statuses := make([]values.Status, 0, profile.SeriesCount())
	for i, spec := range profile.Series.Items {
		sr := uc.evaluateSeries(analyzer, filter, spec)
		sr.Index = i

		uc.logger.Debug("series evaluated", "series", spec.Code, "status", string(sr.Status))
		statuses = append(statuses, sr.Status)
		result.AddSeriesResult(sr)
	}

	result.Status = uc.aggregator.AggregateRunStatus(statuses)
	result.Finalize()
	return result
}

func (uc *CheckBatchUseCase) evaluateSeries(
	analyzer *services.SeriesAnalyzer,
	filter *services.SeriesFilter,
	spec entities.SeriesSpec,
) execution.SeriesResult {
	sr := execution.SeriesResult{
		Code:        spec.Code,
		Name:        spec.DisplayName(),
		Description: spec.Description,
		Severity:    spec.Severity,
		Tags:        spec.Tags,
	}

	if ok, reason := filter.ShouldCheck(spec); !ok {
		sr.Status = values.StatusSkipped
		sr.SkipReason = reason
		return sr
	}

	activeTolerance, allowedImpurity := spec.Tolerances()
	eval, err := analyzer.EvaluateSeries(spec.Code, spec.ExpectedActive, activeTolerance, allowedImpurity)
	if err != nil {
		// A failed query affects only this series.
		sr.Status, sr.Message = uc.aggregator.StatusFromError(err)
		return sr
	}

	sr.Evaluation = &eval
	sr.Status, sr.Message, sr.Expectations = uc.aggregator.DetermineSeriesStatus(eval, spec.Expect)
	return sr
}

// buildFilter validates filter configuration and compiles the filter expression.
func (uc *CheckBatchUseCase) buildFilter(profile *entities.QCProfile, filters dto.FilterOptions) (*services.SeriesFilter, error) {
	// Validate --series references exist
	for _, code := range filters.IncludeSeries {
		if !profile.HasSeries(code) {
			return nil, apperrors.NewValidationError(
				"filters",
				fmt.Sprintf("--series references a series not in the profile: %s", code),
			)
		}
	}

	// Validate --exclude-series references exist
	for _, code := range filters.ExcludeSeries {
		if !profile.HasSeries(code) {
			return nil, apperrors.NewValidationError(
				"filters",
				fmt.Sprintf("--exclude-series references a series not in the profile: %s", code),
			)
		}
	}

	filter := services.NewSeriesFilter().
		WithExclusiveSeries(filters.IncludeSeries).
		WithExcludedSeries(filters.ExcludeSeries).
		WithIncludedTags(filters.IncludeTags).
		WithExcludedTags(filters.ExcludeTags).
		WithIncludedSeverities(filters.IncludeSeverities)

	if filters.FilterExpression != "" {
		program, err := services.CompileSeriesFilter(filters.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError(
				"filters",
				fmt.Sprintf("%v\nExample: severity in ['critical', 'high'] && !('pilot' in tags)", err),
			)
		}
		filter = filter.WithFilterExpression(program)
	}

	return filter, nil
}

func (uc *CheckBatchUseCase) buildResponse(
	req dto.CheckBatchRequest,
	startTime time.Time,
	result *execution.CheckResult,
	analyzer *services.SeriesAnalyzer,
	profile *entities.QCProfile,
) *dto.CheckBatchResponse {
	observed := analyzer.SeriesCodes()
	codes := make([]string, 0, len(observed))
	var warnings []string
	for _, code := range observed {
		codes = append(codes, code.String())
		if !profile.HasSeries(code.String()) {
			warnings = append(warnings, fmt.Sprintf("series %s is present in the data but not in the profile", code))
		}
	}

	return &dto.CheckBatchResponse{
		Result: result,
		Table:  analyzer.Table(),
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
		Diagnostics: dto.Diagnostics{
			Warnings:       warnings,
			ObservedSeries: codes,
		},
	}
}

// CheckFailed returns true if the result indicates failures.
func (uc *CheckBatchUseCase) CheckFailed(result *execution.CheckResult) bool {
	return result.HasFailures()
}
