package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/application/ports"
)

func newShowCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "show <data>...",
		Short: "Print the validated record table",
		Long: `Validate the batch data and print the denormalized record table:
identifier, total weight, active-substance weight and impurity weight.

With --add, the table is printed once for the data files and once more after
each added row. Earlier tables never change.`,
		Example: `  batchqc show lot-0412.csv
  batchqc show lot-0412.csv --add "G03-01,789.01,129.00,0.00008" --format json`,
		RunE: withContainer(&opts, func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runShow(cc, &opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func runShow(cc *CommandContext, opts *CommonOptions, args []string, stdout io.Writer) error {
	formatters := cc.Container.Formatters()
	if err := ValidateFormat(cc.Config.Format, formatters.SupportedRowFormats()); err != nil {
		return err
	}

	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	resp, err := cc.Container.InspectBatchUseCase().Execute(ctx, dto.InspectBatchRequest{
		DataPaths: args,
		ExtraRows: opts.ExtraRows(),
		Ingest:    ingestOptions(cc.Config),
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

	formatter, err := formatters.CreateRows(cc.Config.Format, writer, ports.FormatterOptions{
		Indent: true,
		Color:  useColor(cc.Config, writer),
	})
	if err != nil {
		return err
	}
	if err := formatter.FormatRows(resp.Snapshots); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
