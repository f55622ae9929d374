package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// #region export

// ExportHistoryCSV writes a run's persisted samples as timestamp,cpu,memory
// rows with a header. Returns the number of rows written; zero rows means
// nothing was written at all.
func (s *Store) ExportHistoryCSV(w io.Writer, runID string) (int, error) {
	samples, err := s.ListSamples(runID)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "cpu", "memory"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, sample := range samples {
		row := []string{
			sample.Timestamp.Format(time.RFC3339Nano),
			strconv.FormatFloat(sample.CPUPercent, 'f', -1, 64),
			strconv.FormatFloat(sample.MemoryGB, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// #endregion export
