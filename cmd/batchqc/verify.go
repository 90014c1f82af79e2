package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/application/ports"
	"github.com/reglet-dev/batchqc/internal/application/services"
)

type verifyOptions struct {
	CommonOptions
	Series          string
	ExpectedActive  float64
	ActiveTolerance float64
	AllowedImpurity float64
}

func newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{
		CommonOptions:   DefaultCommonOptions(),
		ActiveTolerance: services.DefaultActiveTolerance,
		AllowedImpurity: services.DefaultAllowedImpurity,
	}

	cmd := &cobra.Command{
		Use:   "verify <data>...",
		Short: "Verify one series against ad-hoc tolerances",
		Long: `Check a single series without a profile. With n units in the series:

  target = expected * n
  passes when |target - sum(active)| <= target * tolerance
         and sum(impurities) <= impurity * sum(total)

Exits non-zero when the series fails. A series with no units is an error.`,
		Example: `  batchqc verify lot-0412.csv --series L01 --expected 100
  batchqc verify lot-0412.csv --series L01 --expected 100 --tolerance 0.05 --impurity 0.001`,
		RunE: withContainer(&opts.CommonOptions, func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runVerify(cc, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.Series, "series", "", "Series code, e.g. L01")
	cmd.Flags().Float64Var(&opts.ExpectedActive, "expected", 0, "Expected active-substance weight per unit")
	cmd.Flags().Float64Var(&opts.ActiveTolerance, "tolerance", opts.ActiveTolerance, "Allowed fractional deviation of total active substance")
	cmd.Flags().Float64Var(&opts.AllowedImpurity, "impurity", opts.AllowedImpurity, "Allowed impurities as a fraction of total weight")
	_ = cmd.MarkFlagRequired("series")
	_ = cmd.MarkFlagRequired("expected")

	return cmd
}

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func runVerify(cc *CommandContext, opts *verifyOptions, args []string, stdout io.Writer) error {
	formatters := cc.Container.Formatters()
	if err := ValidateFormat(cc.Config.Format, formatters.SupportedFormats()); err != nil {
		return err
	}

	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	resp, err := cc.Container.VerifySeriesUseCase().Execute(ctx, dto.VerifySeriesRequest{
		DataPaths:       args,
		ExtraRows:       opts.ExtraRows(),
		Ingest:          ingestOptions(cc.Config),
		Series:          opts.Series,
		ExpectedActive:  opts.ExpectedActive,
		ActiveTolerance: opts.ActiveTolerance,
		AllowedImpurity: opts.AllowedImpurity,
	})
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(opts.OutFile, stdout)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOutput() // Best-effort cleanup
	}()

	formatter, err := formatters.Create(cc.Config.Format, writer, ports.FormatterOptions{
		Indent: true,
		Color:  useColor(cc.Config, writer),
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(resp.Result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if !resp.Passed {
		return fmt.Errorf("series %s failed verification: %s", opts.Series, resp.Message)
	}
	return nil
}
