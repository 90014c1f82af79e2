package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
)

// JSONFormatter formats check results as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the check result as JSON.
func (f *JSONFormatter) Format(result *execution.CheckResult) error {
	return f.write(result)
}

// FormatRows writes the snapshots as a JSON array.
func (f *JSONFormatter) FormatRows(snapshots []dto.Snapshot) error {
	return f.write(snapshotDocuments(snapshots))
}

func (f *JSONFormatter) write(v any) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}
