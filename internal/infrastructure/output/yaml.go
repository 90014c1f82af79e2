package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
)

// YAMLFormatter formats check results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the check result as YAML.
func (f *YAMLFormatter) Format(result *execution.CheckResult) error {
	return f.encode(result)
}

// FormatRows writes the snapshots as a YAML sequence.
func (f *YAMLFormatter) FormatRows(snapshots []dto.Snapshot) error {
	return f.encode(snapshotDocuments(snapshots))
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
