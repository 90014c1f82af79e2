package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/batchqc/internal/infrastructure/config"
	"github.com/reglet-dev/batchqc/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Config    *config.RuntimeConfig
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with configuration and container setup.
//
// Usage:
//
//	cmd := &cobra.Command{
//	    Use: "show <data>...",
//	    RunE: withContainer(&opts, func(cc *CommandContext, cmd *cobra.Command, args []string) error {
//	        return runShow(cc, &opts, args, cmd.OutOrStdout())
//	    }),
//	}
func withContainer(opts *CommonOptions, handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.RuntimeConfig(cmd, viper.GetViper())
		if err != nil {
			return err
		}

		cc, err := newCommandContext(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		return handler(cc, cmd, args)
	}
}

func newCommandContext(ctx context.Context, cfg *config.RuntimeConfig) (*CommandContext, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	c, err := container.New(container.Options{
		Logger:        logger,
		RuntimeConfig: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return &CommandContext{
		Container: c,
		Config:    cfg,
		Logger:    logger,
		Context:   ctx,
	}, nil
}
