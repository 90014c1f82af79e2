package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one sheet of an Excel workbook.
type XLSXSource struct {
	path   string
	sheet  string
	header string
}

// NewXLSXSource creates a workbook source. An empty sheet selects the first sheet.
func NewXLSXSource(path, sheet, header string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet, header: header}
}

// ReadRows implements ports.RowSource.
func (s *XLSXSource) ReadRows(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	index, err := f.GetSheetIndex(sheet)
	if err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %v)", sheet, f.GetSheetList())
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return tableRows(records, s.header), nil
}
