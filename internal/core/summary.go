package core

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes the unit price distribution of a set of rows.
type Summary struct {
	Rows   int      `json:"rows"`
	Files  int      `json:"files"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
}

// Summarize computes unit price statistics over rows.
// The statistics are nil when rows is empty.
func Summarize(rows []Row) (Summary, error) {
	s := Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s, nil
	}

	files := make(map[string]struct{})
	data := make(stats.Float64Data, len(rows))
	for i, row := range rows {
		data[i] = row.UnitPrice
		files[row.SourceFile] = struct{}{}
	}
	s.Files = len(files)

	for _, m := range []struct {
		dst *(*float64)
		fn  func(stats.Float64Data) (float64, error)
		tag string
	}{
		{&s.Min, stats.Min, "min"},
		{&s.Max, stats.Max, "max"},
		{&s.Mean, stats.Mean, "mean"},
		{&s.Median, stats.Median, "median"},
	} {
		v, err := m.fn(data)
		if err != nil {
			return Summary{}, fmt.Errorf("unit price %s: %w", m.tag, err)
		}
		*m.dst = &v
	}

	return s, nil
}
