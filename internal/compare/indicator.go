package compare

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/sci"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

// Indicator CSV key columns.
const (
	ColYear = "Year"
	ColID   = "ID"
)

// ErrMissingIndicatorColumn means an indicator source lacks a required column.
var ErrMissingIndicatorColumn = eris.New("compare: missing indicator column")

// Observations derives household observations for job from a headered grid
// with Year and ID columns. Rows with a blank Year or ID are skipped.
func (j Job) Observations(grid [][]string) ([]sci.Observation, error) {
	if len(grid) == 0 {
		return nil, nil
	}
	cols := columnIndex(grid[0])

	yearIdx, ok := cols[ColYear]
	if !ok {
		return nil, eris.Wrapf(ErrMissingIndicatorColumn, "%s: %s", j.Source, ColYear)
	}
	idIdx, ok := cols[ColID]
	if !ok {
		return nil, eris.Wrapf(ErrMissingIndicatorColumn, "%s: %s", j.Source, ColID)
	}

	names := j.AnyOf
	if len(names) == 0 {
		names = []string{j.Value}
	}
	valueIdx := make([]int, len(names))
	for i, name := range names {
		idx, ok := cols[name]
		if !ok {
			return nil, eris.Wrapf(ErrMissingIndicatorColumn, "%s: %s", j.Source, name)
		}
		valueIdx[i] = idx
	}

	obs := make([]sci.Observation, 0, len(grid)-1)
	for line, row := range grid[1:] {
		year, ok, err := tabular.ParseInt(cell(row, yearIdx))
		if err != nil {
			return nil, eris.Wrapf(err, "compare: %s row %d", j.Source, line+2)
		}
		if !ok {
			continue
		}
		id, ok, err := tabular.ParseInt(cell(row, idIdx))
		if err != nil {
			return nil, eris.Wrapf(err, "compare: %s row %d", j.Source, line+2)
		}
		if !ok {
			continue
		}

		if j.Is != "" {
			obs = append(obs, sci.Observation{Year: year, ID: int64(id), Value: j.match(cell(row, valueIdx[0]))})
			continue
		}

		values := make([]tabular.Float, len(valueIdx))
		for i, idx := range valueIdx {
			v, err := parseIndicator(cell(row, idx))
			if err != nil {
				return nil, eris.Wrapf(err, "compare: %s row %d", j.Source, line+2)
			}
			values[i] = v
		}
		obs = append(obs, sci.Observation{Year: year, ID: int64(id), Value: j.derive(values)})
	}
	return obs, nil
}

// derive applies the job's flag rules to the raw values of one household.
func (j Job) derive(values []tabular.Float) tabular.Float {
	if len(j.AnyOf) > 0 {
		hit, known := false, false
		for _, v := range values {
			if !v.Valid {
				continue
			}
			known = true
			if v.V != 0 {
				hit = true
			}
		}
		if !known {
			return tabular.Null()
		}
		return sci.Bool(hit)
	}

	v := values[0]
	switch {
	case !v.Valid:
		return v
	case j.Equals != nil:
		return sci.Bool(v.V == *j.Equals)
	case j.AtLeast != nil:
		return sci.Bool(v.V >= *j.AtLeast)
	}
	return v
}

// match flags a text value equal to j.Is. Blank values are null.
func (j Job) match(s string) tabular.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return tabular.Null()
	}
	return sci.Bool(s == j.Is)
}

// parseIndicator reads numbers and true/false flags as floats.
func parseIndicator(s string) (tabular.Float, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tabular.Null(), nil
	}
	if f, err := tabular.ParseFloat(s); err == nil {
		return f, nil
	}
	b, _, err := tabular.ParseBool(s)
	if err != nil {
		return tabular.Null(), eris.Errorf("compare: %q is neither a number nor a flag", s)
	}
	return sci.Bool(b), nil
}

// MeasureObservations reads a plain numeric measure, used for share_of
// denominators.
func MeasureObservations(m Measure, grid [][]string) ([]sci.Observation, error) {
	return Job{Measure: m}.Observations(grid)
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
