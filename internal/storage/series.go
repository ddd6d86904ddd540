package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/ctrlsim/internal/experiment"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
)

// Series names written by Save.
const (
	SeriesTime      = "time"
	SeriesFrequency = "frequency"
	SeriesLocus     = "locus"
)

type series struct {
	name   string
	header []string
	rows   [][]float64
}

func seriesOf(res *experiment.Result) []series {
	var out []series
	if tr := res.Time; tr != nil {
		rows := make([][]float64, len(tr.T))
		for i := range tr.T {
			rows[i] = []float64{tr.T[i], tr.Y[i], tr.Signal[i]}
		}
		out = append(out, series{SeriesTime, []string{"t", "y", "u"}, rows})
	}
	if fr := res.Frequency; fr != nil {
		rows := make([][]float64, len(fr.Samples))
		for i, s := range fr.Samples {
			rows[i] = []float64{s.Frequency, s.MagnitudeDB(), s.Phase, s.Real, s.Imag}
		}
		out = append(out, series{SeriesFrequency, []string{"omega", "mag_db", "phase_deg", "re", "im"}, rows})
	}
	if l := res.Locus; l != nil {
		var rows [][]float64
		for b, br := range l.Branches {
			for k, idx := range br {
				if idx == rootlocus.Gap {
					continue
				}
				z := l.Samples[k].Roots[idx]
				rows = append(rows, []float64{l.Samples[k].K, float64(b), real(z), imag(z)})
			}
		}
		out = append(out, series{SeriesLocus, []string{"k", "branch", "re", "im"}, rows})
	}
	return out
}

func writeCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', 10, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadSeries reads one stored series as its header and numeric rows.
func (s *Store) LoadSeries(runID, name string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name+".csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s/%s: %w", runID, name, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s/%s: missing header", runID, name)
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s/%s line %d: %w", runID, name, i+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}

// Column extracts column j of rows.
func Column(rows [][]float64, j int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if j < len(r) {
			out = append(out, r[j])
		}
	}
	return out
}
