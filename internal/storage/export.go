package storage

import (
	"fmt"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

// ExportData is a stored run with its series inlined.
type ExportData struct {
	RunMetadata
	Data map[string]ExportSeries `json:"data"`
}

type ExportSeries struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// ExportJSON writes run runID and all of its series to path. Rows holding
// NaN or ±Inf are dropped.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	out := ExportData{RunMetadata: *meta, Data: make(map[string]ExportSeries, len(meta.Series))}
	for _, name := range meta.Series {
		header, rows, err := s.LoadSeries(runID, name)
		if err != nil {
			return fmt.Errorf("export %s: %w", runID, err)
		}
		finite := rows[:0]
		for _, row := range rows {
			if dynamo.State(row).IsValid() {
				finite = append(finite, row)
			}
		}
		out.Data[name] = ExportSeries{Columns: header, Rows: finite}
	}
	return writeJSON(path, out)
}
