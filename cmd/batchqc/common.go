package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/infrastructure/config"
	"github.com/reglet-dev/batchqc/internal/infrastructure/ingest"
)

// CommonOptions contains flags shared by every command that reads batch data.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string
	NoColor bool

	// Ingest
	Sheet     string
	Delimiter string
	Header    string
	Adds      []string

	// Execution
	Timeout time.Duration
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Format:  "table",
		Header:  ingest.HeaderAuto,
		Timeout: 2 * time.Minute,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format")
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
	cmd.Flags().StringArrayVar(&opts.Adds, "add", nil,
		"Append a row after the data files: ID,TOTAL,ACTIVE,IMPURITIES (repeatable)")

	opts.RegisterIngestFlags(cmd)
}

// RegisterIngestFlags adds the flags that control how data files are read.
func (opts *CommonOptions) RegisterIngestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "",
		"Sheet to read from .xlsx files (default: first sheet)")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "",
		`Field separator for .csv/.tsv files (single character or "tab")`)
	cmd.Flags().StringVar(&opts.Header, "header", opts.Header,
		"Header row handling: auto, always, never")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for entire execution (0 to disable)")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// RuntimeConfig merges the config file and environment with the flags the
// user actually set. Flags win.
func (opts *CommonOptions) RuntimeConfig(cmd *cobra.Command, v *viper.Viper) (*config.RuntimeConfig, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if opts.NoColor {
		cfg.Color = false
	}
	if flags.Changed("sheet") {
		cfg.Sheet = opts.Sheet
	}
	if flags.Changed("header") {
		cfg.Header = opts.Header
	}
	if flags.Changed("delimiter") {
		r, err := config.ParseDelimiter(opts.Delimiter)
		if err != nil {
			return nil, err
		}
		cfg.Delimiter = r
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateFormat checks the resolved format against what the command supports.
func ValidateFormat(format string, supported []string) error {
	if !slices.Contains(supported, format) {
		return fmt.Errorf("invalid format: %s (valid: %v)", format, supported)
	}
	return nil
}

// ExtraRows parses the --add values with the same cell rules as CSV input.
func (opts *CommonOptions) ExtraRows() []entities.Row {
	rows := make([]entities.Row, 0, len(opts.Adds))
	for _, add := range opts.Adds {
		rows = append(rows, ingest.ParseRow(add))
	}
	return rows
}

func ingestOptions(cfg *config.RuntimeConfig) dto.IngestOptions {
	return dto.IngestOptions{
		Sheet:     cfg.Sheet,
		Delimiter: cfg.Delimiter,
		Header:    cfg.Header,
	}
}

// openOutput returns the writer for results: the file at path, or fallback
// when path is empty. The returned close function is always non-nil.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}

// useColor reports whether table output to w should be colored.
func useColor(cfg *config.RuntimeConfig, w io.Writer) bool {
	if !cfg.Color {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
