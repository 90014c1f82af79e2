package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/application/services"
	"github.com/reglet-dev/batchqc/internal/infrastructure/build"
	"github.com/reglet-dev/batchqc/internal/templates"
)

type initOptions struct {
	CommonOptions
	Name            string
	ProfileVersion  string
	Description     string
	ActiveTolerance float64
	AllowedImpurity float64
	Severity        string
	Tags            []string
	NoInteractive   bool
	Force           bool
	Bare            bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{
		CommonOptions:   DefaultCommonOptions(),
		ProfileVersion:  "1.0.0",
		ActiveTolerance: services.DefaultActiveTolerance,
		AllowedImpurity: services.DefaultAllowedImpurity,
	}
	opts.OutFile = "qc-profile.yaml"

	cmd := &cobra.Command{
		Use:   "init <data>...",
		Short: "Generate a starter QC profile from batch data",
		Long: `Generate a QC profile with one series spec per series found in the data.
Each spec's expected active-substance weight is the observed mean per unit;
tolerances come from flags or interactive prompts.`,
		Example: `  batchqc init lot-0412.csv
  batchqc init lot-0412.csv lot-0413.csv --name tablets --severity high --no-interactive
  batchqc init lot-0412.csv -o - --bare`,
		Args: cobra.MinimumNArgs(1),
		RunE: withContainer(&opts.CommonOptions, func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			if !opts.NoInteractive {
				if err := promptInit(opts, args); err != nil {
					return err
				}
			}
			return runInit(cc, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterIngestFlags(cmd)
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", opts.OutFile, `Output file path ("-" for stdout)`)
	cmd.Flags().StringVar(&opts.Name, "name", "", "Profile name (default: first data file name)")
	cmd.Flags().StringVar(&opts.ProfileVersion, "profile-version", opts.ProfileVersion, "Profile version")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Profile description")
	cmd.Flags().Float64Var(&opts.ActiveTolerance, "tolerance", opts.ActiveTolerance, "Default active-substance tolerance")
	cmd.Flags().Float64Var(&opts.AllowedImpurity, "impurity", opts.AllowedImpurity, "Default allowed impurity fraction")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Default severity: low, medium, high, critical")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "Default tags (comma-separated)")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Disable interactive prompts")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing output file")
	cmd.Flags().BoolVar(&opts.Bare, "bare", false, "Write plain YAML without explanatory comments")

	return cmd
}

func init() {
	rootCmd.AddCommand(newInitCmd())
}

// promptInit asks for the settings the user did not pass as flags.
func promptInit(opts *initOptions, args []string) error {
	if opts.Name == "" {
		opts.Name = defaultProfileName(args)
		err := huh.NewInput().
			Title("Profile name").
			Value(&opts.Name).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.Severity == "" {
		err := huh.NewSelect[string]().
			Title("Default severity").
			Options(
				huh.NewOption("Critical (release blocking)", "critical"),
				huh.NewOption("High", "high").Selected(true),
				huh.NewOption("Medium", "medium"),
				huh.NewOption("Low (informational)", "low"),
			).
			Value(&opts.Severity).
			Run()
		if err != nil {
			return err
		}
	}

	tolerance := strconv.FormatFloat(opts.ActiveTolerance, 'g', -1, 64)
	impurity := strconv.FormatFloat(opts.AllowedImpurity, 'g', -1, 64)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Active-substance tolerance (fraction)").
				Value(&tolerance).
				Validate(validateFraction),
			huh.NewInput().
				Title("Allowed impurities (fraction of total weight)").
				Value(&impurity).
				Validate(validateFraction),
		),
	).Run()
	if err != nil {
		return err
	}

	opts.ActiveTolerance, _ = strconv.ParseFloat(strings.TrimSpace(tolerance), 64)
	opts.AllowedImpurity, _ = strconv.ParseFloat(strings.TrimSpace(impurity), 64)
	return nil
}

func validateFraction(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number, e.g. 0.05")
	}
	if f < 0 || f > 1 {
		return errors.New("must be between 0 and 1")
	}
	return nil
}

// defaultProfileName derives a name from the first data file.
func defaultProfileName(args []string) string {
	if len(args) == 0 {
		return "batch-qc"
	}
	base := filepath.Base(args[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runInit(cc *CommandContext, opts *initOptions, args []string, stdout io.Writer) error {
	if opts.Name == "" {
		opts.Name = defaultProfileName(args)
	}

	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	resp, err := cc.Container.DraftProfileUseCase().Execute(ctx, dto.DraftProfileRequest{
		DataPaths:       args,
		Ingest:          ingestOptions(cc.Config),
		Name:            opts.Name,
		Version:         opts.ProfileVersion,
		Description:     opts.Description,
		ActiveTolerance: opts.ActiveTolerance,
		AllowedImpurity: opts.AllowedImpurity,
		Severity:        opts.Severity,
		Tags:            opts.Tags,
	})
	if err != nil {
		return err
	}

	var content []byte
	if opts.Bare {
		content, err = yaml.Marshal(resp.Profile)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
	} else {
		var b strings.Builder
		err = templates.RenderProfile(&b, templates.ProfileData{
			Profile:      resp.Profile,
			Observations: resp.Observations,
			Sources:      args,
			ToolVersion:  build.Get().Version,
		})
		if err != nil {
			return err
		}
		content = []byte(b.String())
	}

	if opts.OutFile == "-" {
		_, err := stdout.Write(content)
		return err
	}

	if !opts.Force {
		if _, err := os.Stat(opts.OutFile); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", opts.OutFile)
		}
	}
	//nolint:gosec // G306: profiles are not secret
	if err := os.WriteFile(opts.OutFile, content, 0o644); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Profile with %d series saved to %s\n", len(resp.Profile.Series.Items), opts.OutFile)
	fmt.Fprintf(stdout, "Run 'batchqc check %s %s' to check the data against it.\n", opts.OutFile, strings.Join(args, " "))
	return nil
}
