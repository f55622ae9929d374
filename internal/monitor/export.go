package monitor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// #region export-csv

// ExportCSV writes the history as timestamp,cpu,memory rows with a header.
// An empty history is reported via ErrEmptyHistory rather than writing an
// empty file.
func (m *Monitor) ExportCSV(w io.Writer) error {
	if len(m.history) == 0 {
		return ErrEmptyHistory
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "cpu", "memory"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range m.history {
		row := []string{
			s.Timestamp.Format(time.RFC3339Nano),
			strconv.FormatFloat(s.CPUPercent, 'f', -1, 64),
			strconv.FormatFloat(s.MemoryGB, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// #endregion export-csv
