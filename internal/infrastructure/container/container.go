// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/application/services"
	domainservices "github.com/reglet-dev/batchqc/internal/domain/services"
	"github.com/reglet-dev/batchqc/internal/infrastructure/build"
	"github.com/reglet-dev/batchqc/internal/infrastructure/config"
	"github.com/reglet-dev/batchqc/internal/infrastructure/ingest"
	"github.com/reglet-dev/batchqc/internal/infrastructure/output"
)

// Container holds all application dependencies.
type Container struct {
	profileLoader       ports.ProfileLoader
	rowSources          ports.RowSourceFactory
	formatters          ports.OutputFormatterFactory
	checkBatchUseCase   *services.CheckBatchUseCase
	inspectBatchUseCase *services.InspectBatchUseCase
	verifySeriesUseCase *services.VerifySeriesUseCase
	draftProfileUseCase *services.DraftProfileUseCase
	runtimeConfig       *config.RuntimeConfig
	logger              *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// RuntimeConfig is the merged config file, environment and flag settings
	RuntimeConfig *config.RuntimeConfig
	// ToolVersion overrides the build version for profile compatibility checks
	ToolVersion string
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RuntimeConfig == nil {
		opts.RuntimeConfig = &config.RuntimeConfig{}
		opts.RuntimeConfig.ApplyDefaults()
	}
	if opts.ToolVersion == "" {
		if info := build.Get(); info.IsRelease() {
			opts.ToolVersion = info.Version
		}
	}

	loader, err := config.NewProfileLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile loader: %w", err)
	}
	profileLoader := loader.WithToolVersion(opts.ToolVersion)

	rowSources := ingest.NewSourceFactory()

	// Domain services
	profileCompiler := domainservices.NewProfileCompiler()
	aggregator := domainservices.NewStatusAggregator()

	return &Container{
		profileLoader: profileLoader,
		rowSources:    rowSources,
		formatters:    output.NewFormatterFactory(),
		checkBatchUseCase: services.NewCheckBatchUseCase(
			profileLoader,
			profileCompiler,
			rowSources,
			aggregator,
			opts.ToolVersion,
			opts.Logger,
		),
		inspectBatchUseCase: services.NewInspectBatchUseCase(rowSources, opts.Logger),
		verifySeriesUseCase: services.NewVerifySeriesUseCase(rowSources, opts.Logger),
		draftProfileUseCase: services.NewDraftProfileUseCase(rowSources, opts.Logger),
		runtimeConfig:       opts.RuntimeConfig,
		logger:              opts.Logger,
	}, nil
}

// CheckBatchUseCase returns the check batch use case.
func (c *Container) CheckBatchUseCase() *services.CheckBatchUseCase {
	return c.checkBatchUseCase
}

// InspectBatchUseCase returns the inspect batch use case.
func (c *Container) InspectBatchUseCase() *services.InspectBatchUseCase {
	return c.inspectBatchUseCase
}

// VerifySeriesUseCase returns the verify series use case.
func (c *Container) VerifySeriesUseCase() *services.VerifySeriesUseCase {
	return c.verifySeriesUseCase
}

// DraftProfileUseCase returns the draft profile use case.
func (c *Container) DraftProfileUseCase() *services.DraftProfileUseCase {
	return c.draftProfileUseCase
}

// ProfileLoader returns the profile loader.
func (c *Container) ProfileLoader() ports.ProfileLoader {
	return c.profileLoader
}

// RowSources returns the row source factory.
func (c *Container) RowSources() ports.RowSourceFactory {
	return c.rowSources
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() ports.OutputFormatterFactory {
	return c.formatters
}

// RuntimeConfig returns the runtime configuration.
func (c *Container) RuntimeConfig() *config.RuntimeConfig {
	return c.runtimeConfig
}

// Logger returns the logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
