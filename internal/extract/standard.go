package extract

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/metadata"
	"github.com/sells-group/hbs-summary/internal/sanitize"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

var (
	// ErrNoYearColumn means a sheet's header maps to no Year column.
	ErrNoYearColumn = eris.New("extract: no Year column")

	// ErrDuplicateColumn means two header cells map to the same canonical column.
	ErrDuplicateColumn = eris.New("extract: duplicate canonical column")
)

// HeaderResolver maps a raw header row of group in year to canonical names.
type HeaderResolver interface {
	ResolveHeader(group string, year int, header []string) ([]string, error)
}

// Standard builds the standardized table for indicator group. The matrix
// must already be renamed to canonical table names. Any failing year aborts
// the whole table.
func (x *Extractor) Standard(group string, resolver HeaderResolver) (*Table, error) {
	var parts []*Table
	for _, year := range x.matrix.Years() {
		number, ok := x.matrix.Lookup(year, group)
		if !ok {
			continue
		}

		rows, err := x.lib.Sheet(year, number)
		if err != nil {
			return nil, eris.Wrapf(err, "extract: standard %q year %d", group, year)
		}
		part, err := StandardizeSheet(group, year, rows, resolver)
		if err != nil {
			return nil, eris.Wrapf(err, "extract: standard %q year %d sheet %q", group, year, number)
		}
		zap.L().Debug("standardized sheet",
			zap.String("group", group),
			zap.Int("year", year),
			zap.Int("rows", len(part.Records)),
		)
		parts = append(parts, part)
	}
	return Stack(group, parts...), nil
}

// StandardizeSheet turns one raw sheet into a Table. The first row is the
// header, resolved through resolver; Year cells become integers, all other
// cells floats, and blank cells null. Rows with a blank Year are dropped.
func StandardizeSheet(group string, reportYear int, rows [][]string, resolver HeaderResolver) (*Table, error) {
	grid := prepareGrid(rows)
	t := &Table{Name: group}
	if len(grid) == 0 {
		return t, nil
	}

	columns, err := resolver.ResolveHeader(group, reportYear, grid[0])
	if err != nil {
		return nil, err
	}

	yearIdx := -1
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if seen[c] {
			return nil, eris.Wrapf(ErrDuplicateColumn, "%q", c)
		}
		seen[c] = true
		if c == ColYear {
			yearIdx = i
			continue
		}
		t.Columns = append(t.Columns, c)
	}
	if yearIdx < 0 {
		return nil, ErrNoYearColumn
	}

	for n, row := range grid[1:] {
		year, ok, err := tabular.ParseInt(row[yearIdx])
		if err != nil {
			return nil, eris.Wrapf(err, "row %d", n+2)
		}
		if !ok {
			continue
		}

		rec := Record{ReportYear: reportYear, Year: year, Values: make(map[string]tabular.Float)}
		for i, c := range columns {
			if i == yearIdx {
				continue
			}
			v, err := tabular.ParseFloat(row[i])
			if err != nil {
				return nil, eris.Wrapf(err, "row %d column %q", n+2, c)
			}
			if v.Valid {
				rec.Values[c] = v
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// prepareGrid sanitizes every cell, cleans header cells, pads rows to a
// common width, and drops columns that are blank from top to bottom.
func prepareGrid(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make([][]string, 0, len(rows))
	for i, row := range rows {
		out := make([]string, width)
		for j, v := range row {
			if i == 0 {
				out[j] = sanitize.Header(v)
			} else {
				out[j] = sanitize.Cell(v)
			}
		}
		grid = append(grid, out)
	}

	keep := make([]int, 0, width)
	for j := 0; j < width; j++ {
		for _, row := range grid {
			if strings.TrimSpace(row[j]) != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == width {
		return grid
	}
	for i, row := range grid {
		out := make([]string, len(keep))
		for k, j := range keep {
			out[k] = row[j]
		}
		grid[i] = out
	}
	return grid
}

var _ HeaderResolver = (*metadata.Store)(nil)
