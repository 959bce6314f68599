package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with a new file.
const defaultSheet = "Sheet1"

// WriteXLSX writes rows to a workbook with a single sheet named sheet.
// The first row holds the headers.
func WriteXLSX[T any](w io.Writer, sheet string, rows []T, p Projection[T]) error {
	if len(rows) == 0 {
		return ErrNothingToExport
	}
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	}

	headers := make([]any, 0, len(p))
	for _, h := range p.Headers() {
		headers = append(headers, h)
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, p.cells(r)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
