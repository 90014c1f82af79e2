package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/reglet-dev/batchqc/internal/domain/execution"
)

// SARIFFormatter formats check results as SARIF 2.1.0 JSON.
// Series specs become rules and each checked series becomes a result
// located in the profile that defines it.
type SARIFFormatter struct {
	writer      io.Writer
	profilePath string
}

// NewSARIFFormatter creates a new SARIF formatter.
// profilePath is used as the location of every result.
func NewSARIFFormatter(writer io.Writer, profilePath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:      writer,
		profilePath: profilePath,
	}
}

// Format writes the check result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *execution.CheckResult) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("batchqc", "https://github.com/reglet-dev/batchqc")
	if result.ToolVersion != "" {
		run.Tool.Driver.Version = &result.ToolVersion
	}
	run.Tool.Driver.Organization = ptrString("Reglet")

	newSARIFMapper(result, f.profilePath).mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
