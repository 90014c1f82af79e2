package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/application/ports"
)

// SourceFactory implements ports.RowSourceFactory.
type SourceFactory struct{}

// NewSourceFactory creates a new row source factory.
func NewSourceFactory() *SourceFactory {
	return &SourceFactory{}
}

// Open returns the row source for a path, chosen by file extension.
func (f *SourceFactory) Open(path string, options dto.IngestOptions) (ports.RowSource, error) {
	header := options.Header
	if header == "" {
		header = HeaderAuto
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return NewCSVSource(path, options.Delimiter, header), nil
	case ".tsv", ".tab":
		delimiter := options.Delimiter
		if delimiter == 0 {
			delimiter = '\t'
		}
		return NewCSVSource(path, delimiter, header), nil
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path, options.Sheet, header), nil
	case ".yaml", ".yml", ".json":
		return NewDocumentSource(path), nil
	default:
		return nil, fmt.Errorf(
			"unsupported data file extension %q (supported: %v)",
			ext, f.SupportedExtensions(),
		)
	}
}

// SupportedExtensions returns the file extensions Open understands.
func (f *SourceFactory) SupportedExtensions() []string {
	return []string{".csv", ".txt", ".tsv", ".tab", ".xlsx", ".xlsm", ".yaml", ".yml", ".json"}
}
