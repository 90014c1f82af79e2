package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/services"
)

// Draft defaults follow the tolerances used for release testing.
const (
	DefaultActiveTolerance = 0.05
	DefaultAllowedImpurity = 0.001
)

// DraftProfileUseCase derives a starter QC profile from observed batch data.
// Each observed series gets a spec whose expected active mass is the observed mean.
type DraftProfileUseCase struct {
	loader   *batchLoader
	compiler *services.ProfileCompiler
	logger   *slog.Logger
}

// NewDraftProfileUseCase creates a new draft profile use case.
func NewDraftProfileUseCase(rowSources ports.RowSourceFactory, logger *slog.Logger) *DraftProfileUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftProfileUseCase{
		loader:   &batchLoader{sources: rowSources, logger: logger},
		compiler: services.NewProfileCompiler(),
		logger:   logger,
	}
}

// Execute reads the data files and returns the drafted profile.
// The profile is validated before it is returned.
func (uc *DraftProfileUseCase) Execute(ctx context.Context, req dto.DraftProfileRequest) (*dto.DraftProfileResponse, error) {
	if len(req.DataPaths) == 0 {
		return nil, apperrors.NewValidationError("data", "no data files given")
	}

	stages, err := uc.loader.load(ctx, req.DataPaths, nil, req.Ingest)
	if err != nil {
		return nil, err
	}
	analyzer := stages[0]
	if analyzer.Len() == 0 {
		return nil, apperrors.NewValidationError("data", "data files contain no rows")
	}

	tolerance := req.ActiveTolerance
	if tolerance == 0 {
		tolerance = DefaultActiveTolerance
	}
	impurity := req.AllowedImpurity
	if impurity == 0 {
		impurity = DefaultAllowedImpurity
	}

	profile := &entities.QCProfile{
		Metadata: entities.ProfileMetadata{
			Name:        req.Name,
			Version:     req.Version,
			Description: req.Description,
		},
		Series: entities.SeriesSection{
			Defaults: &entities.SeriesDefaults{
				ActiveTolerance: &tolerance,
				AllowedImpurity: &impurity,
				Severity:        req.Severity,
				Tags:            req.Tags,
			},
		},
	}
	if profile.Metadata.Version == "" {
		profile.Metadata.Version = "1.0.0"
	}

	observations := observeSeries(analyzer.Collection())
	for _, obs := range observations {
		profile.Series.Items = append(profile.Series.Items, entities.SeriesSpec{
			Code:           obs.Code,
			Name:           fmt.Sprintf("Series %s", obs.Code),
			ExpectedActive: obs.MeanActive,
		})
	}

	if _, err := uc.compiler.Compile(profile); err != nil {
		return nil, apperrors.WrapValidationError("profile", "drafted profile is invalid", err)
	}

	uc.logger.Info("profile drafted", "name", profile.Metadata.Name, "series", len(observations))
	return &dto.DraftProfileResponse{Profile: profile, Observations: observations}, nil
}

// observeSeries computes per-series means in first-seen order.
func observeSeries(records entities.RecordCollection) []dto.SeriesObservation {
	codes := records.SeriesCodes()
	observations := make([]dto.SeriesObservation, 0, len(codes))
	for _, code := range codes {
		var active, total, impurity float64
		selected := records.Filter(code)
		for _, rec := range selected.All() {
			active += rec.ActiveWeight()
			total += rec.TotalWeight()
			impurity += rec.ImpurityWeight()
		}
		n := float64(selected.Len())
		observations = append(observations, dto.SeriesObservation{
			Code:          code.String(),
			Units:         selected.Len(),
			MeanActive:    active / n,
			MeanImpurity:  impurity / n,
			ImpurityRatio: impurity / total,
		})
	}
	return observations
}
