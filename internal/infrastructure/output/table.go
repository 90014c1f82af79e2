// Package output renders check results and record tables for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

const ruleWidth = 80

// TableFormatter formats check results as a human-readable report.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true,
	}
}

func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", ruleWidth), colorGray)
}

// Format writes the check result as a report.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) Format(result *execution.CheckResult) error {
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Profile: %s (v%s)\n", f.colorize(result.ProfileName, colorBold), result.ProfileVersion)
	fmt.Fprintf(f.writer, "Checked: %s\n", result.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Records: %d", result.RecordCount)
	if len(result.Sources) > 0 {
		fmt.Fprintf(f.writer, " from %s", strings.Join(result.Sources, ", "))
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer)

	if len(result.Series) == 0 {
		fmt.Fprintln(f.writer, "No series checked.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Series:", colorBold))
	fmt.Fprintln(f.writer, f.rule())

	for _, sr := range result.Series {
		f.formatSeries(sr)
	}

	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintln(f.writer)

	f.formatSummary(result)

	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSeries(sr execution.SeriesResult) {
	symbol, color := f.getStatusInfo(sr.Status)
	fmt.Fprintf(f.writer, "%s %s: %s\n", f.colorize(symbol, color), f.colorize(sr.Code, color), sr.Name)

	if sr.Description != "" {
		fmt.Fprintf(f.writer, "  Description: %s\n", sr.Description)
	}
	if sr.Severity != "" {
		fmt.Fprintf(f.writer, "  Severity: %s\n", sr.Severity)
	}
	if len(sr.Tags) > 0 {
		fmt.Fprintf(f.writer, "  Tags: %s\n", strings.Join(sr.Tags, ", "))
	}

	fmt.Fprintf(f.writer, "  Status: %s\n", f.colorize(strings.ToUpper(string(sr.Status)), color))
	if sr.Message != "" {
		fmt.Fprintf(f.writer, "  Message: %s\n", sr.Message)
	}
	if sr.SkipReason != "" && sr.SkipReason != sr.Message {
		fmt.Fprintf(f.writer, "  Skip Reason: %s\n", sr.SkipReason)
	}

	f.formatEvaluation(sr.Evaluation)
	f.formatFailedExpectations(sr.Expectations)

	fmt.Fprintln(f.writer)
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatEvaluation(eval *execution.SeriesEvaluation) {
	if eval == nil {
		return
	}

	check := func(ok bool) string {
		if ok {
			return f.colorize("✓", colorGreen)
		}
		return f.colorize("✗", colorRed)
	}

	fmt.Fprintln(f.writer, "  Evaluation:")
	fmt.Fprintf(f.writer, "    - %s: %d\n", f.colorize("units", colorBlue), eval.Units)
	fmt.Fprintf(f.writer, "    - %s: %g (target %g ± %g, deviation %g) %s\n",
		f.colorize("active", colorBlue), eval.ActualActive, eval.TargetActive,
		eval.ActiveMargin, eval.ActiveDeviation(), check(eval.ActiveWithinMargin))
	fmt.Fprintf(f.writer, "    - %s: %g (limit %g) %s\n",
		f.colorize("impurities", colorBlue), eval.ActualImpurity, eval.MaxImpurity,
		check(eval.ImpurityWithinLimit))
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatFailedExpectations(expectations []execution.ExpectationResult) {
	var failed []execution.ExpectationResult
	for _, exp := range expectations {
		if !exp.Passed {
			failed = append(failed, exp)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(f.writer, "  %s:\n", f.colorize("Failed Expectations", colorRed))
	for _, exp := range failed {
		fmt.Fprintf(f.writer, "    - %s\n", exp.Expression)
		if exp.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", f.colorize(exp.Message, colorYellow))
		}
	}
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(result *execution.CheckResult) {
	summary := result.Summary
	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.rule())

	fmt.Fprintf(f.writer, "Series:       %d total\n", summary.TotalSeries)
	fmt.Fprintf(f.writer, "  %s Passed:   %d\n", f.colorize("✓", colorGreen), summary.PassedSeries)
	fmt.Fprintf(f.writer, "  %s Failed:   %d\n", f.colorize("✗", colorRed), summary.FailedSeries)
	fmt.Fprintf(f.writer, "  %s Errors:   %d\n", f.colorize("⚠", colorYellow), summary.ErrorSeries)
	fmt.Fprintf(f.writer, "  %s Skipped:  %d\n", f.colorize("⊘", colorGray), summary.SkippedSeries)
	fmt.Fprintln(f.writer)

	symbol, color := f.getStatusInfo(result.Status)
	fmt.Fprintf(f.writer, "Batch: %s %s\n", f.colorize(symbol, color), f.colorize(strings.ToUpper(string(result.Status)), color))
	fmt.Fprintln(f.writer, f.rule())
}

// FormatRows writes each snapshot as an aligned record table.
func (f *TableFormatter) FormatRows(snapshots []dto.Snapshot) error {
	for i, snap := range snapshots {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(f.writer, "%s (%d records)\n", f.colorize(snap.Label, colorBold), len(snap.Table)); err != nil {
			return err
		}

		w := tabwriter.NewWriter(f.writer, 0, 0, 3, ' ', 0)
		if _, err := fmt.Fprintln(w, "IDENTIFIER\tTOTAL\tACTIVE\tIMPURITIES"); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, row := range snap.Table {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = formatCell(cell)
			}
			if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case float64:
		return fmt.Sprintf("%g", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (f *TableFormatter) getStatusInfo(status values.Status) (string, string) {
	switch status {
	case values.StatusPass:
		return "✓", colorGreen
	case values.StatusFail:
		return "✗", colorRed
	case values.StatusError:
		return "⚠", colorYellow
	case values.StatusSkipped:
		return "⊘", colorGray
	default:
		return "?", colorReset
	}
}
