package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrNothingToExport is returned for an empty collection.
var ErrNothingToExport = errors.New("nothing to export")

// WriteCSV writes a header row and one row per record.
func WriteCSV[T any](w io.Writer, rows []T, p Projection[T]) error {
	if len(rows) == 0 {
		return ErrNothingToExport
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Headers()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(p.Row(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
