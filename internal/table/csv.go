package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes t as comma separated UTF-8: one header row from Columns,
// then every data row padded to the header width. No index column is added.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	width := len(t.Columns)
	for i := range t.Rows {
		record := make([]string, width)
		for c := 0; c < width; c++ {
			record[c] = t.Cell(i, c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
