package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/application/ports"
)

type checkOptions struct {
	CommonOptions
	Filters dto.FilterOptions
	Compact bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "check <profile.yaml> <data>...",
		Short: "Check batch data against a QC profile",
		Long: `Load a QC profile and the batch data files, then verify every series the
profile declares. Exits non-zero when any series fails or cannot be evaluated.

Filtering:
  Use flags to select specific series to check.
  --tags release,stability          Check series with 'release' OR 'stability' tags
  --severity critical,high          Check series with 'critical' OR 'high' severity
  --series L01,G02                  Check only these series (exclusive)
  --exclude-tags pilot              Skip series with 'pilot' tag
  --exclude-series G03              Skip these series
  --filter "expected_active > 100"  Advanced filtering expression`,
		Example: `  batchqc check qc-profile.yaml lot-0412.csv
  batchqc check qc-profile.yaml lot-0412.xlsx --sheet Assay --format junit -o results.xml
  batchqc check qc-profile.yaml lot.csv --add "G03-01,789.01,129.00,0.00008"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withContainer(&opts.CommonOptions, func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runCheck(cc, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Compact JSON output")

	cmd.Flags().StringSliceVar(&opts.Filters.IncludeTags, "tags", nil, "Check series with these tags (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Filters.IncludeSeverities, "severity", nil, "Check series with these severities (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Filters.IncludeSeries, "series", nil, "Check specific series by code (exclusive, comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Filters.ExcludeTags, "exclude-tags", nil, "Skip series with these tags (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Filters.ExcludeSeries, "exclude-series", nil, "Skip specific series by code (comma-separated)")
	cmd.Flags().StringVar(&opts.Filters.FilterExpression, "filter", "", "Advanced filter expression (e.g. \"severity == 'critical'\")")

	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

// runCheck implements the core logic for the check command.
func runCheck(cc *CommandContext, opts *checkOptions, args []string, stdout io.Writer) error {
	formatters := cc.Container.Formatters()
	if err := ValidateFormat(cc.Config.Format, formatters.SupportedFormats()); err != nil {
		return err
	}

	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	profilePath := args[0]
	useCase := cc.Container.CheckBatchUseCase()

	resp, err := useCase.Execute(ctx, dto.CheckBatchRequest{
		ProfilePath: profilePath,
		DataPaths:   args[1:],
		ExtraRows:   opts.ExtraRows(),
		Filters:     opts.Filters,
		Ingest:      ingestOptions(cc.Config),
	})
	if err != nil {
		return err
	}

	for _, warning := range resp.Diagnostics.Warnings {
		cc.Logger.Warn(warning)
	}

	writer, closeOutput, err := openOutput(opts.OutFile, stdout)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOutput() // Best-effort cleanup
	}()

	formatter, err := formatters.Create(cc.Config.Format, writer, ports.FormatterOptions{
		ProfilePath: profilePath,
		Indent:      !opts.Compact,
		Color:       useColor(cc.Config, writer),
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(resp.Result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if useCase.CheckFailed(resp.Result) {
		summary := resp.Result.Summary
		return fmt.Errorf("check failed: %d passed, %d failed, %d errors",
			summary.PassedSeries,
			summary.FailedSeries,
			summary.ErrorSeries)
	}

	return nil
}
