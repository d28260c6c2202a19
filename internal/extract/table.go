package extract

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

const (
	ColReportYear = "Report_Year"
	ColYear       = "Year"
)

// Record is one row of a standardized table. ReportYear is the workbook the
// row came from; Year is the survey year it describes. Later workbooks may
// restate earlier years.
type Record struct {
	ReportYear int
	Year       int
	Values     map[string]tabular.Float
}

// Value returns the named column, null when absent.
func (r Record) Value(col string) tabular.Float {
	return r.Values[col]
}

// Table is a standardized indicator group across all workbooks.
type Table struct {
	Name    string
	Columns []string // indicator columns, excluding Report_Year and Year
	Records []Record
}

// HasColumn reports whether col is one of the indicator columns.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Stack concatenates tables diagonally: the result has the union of their
// columns in first-seen order, and columns a table lacks are null in its rows.
func Stack(name string, tables ...*Table) *Table {
	out := &Table{Name: name}
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
		out.Records = append(out.Records, t.Records...)
	}
	return out
}

// Grid renders the table with a Report_Year, Year, columns... header.
func (t *Table) Grid() [][]string {
	rows := make([][]string, 0, len(t.Records)+1)
	rows = append(rows, append([]string{ColReportYear, ColYear}, t.Columns...))
	for _, r := range t.Records {
		row := make([]string, 0, len(t.Columns)+2)
		row = append(row, strconv.Itoa(r.ReportYear), strconv.Itoa(r.Year))
		for _, c := range t.Columns {
			row = append(row, r.Value(c).String())
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTable writes t to path.
func WriteTable(path string, t *Table) error {
	return tabular.WriteGrid(path, t.Grid())
}

// ReadTable reads a table written by WriteTable.
func ReadTable(name, path string) (*Table, error) {
	rows, err := tabular.ReadGrid(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("extract: %s is empty", path)
	}

	header := rows[0]
	reportIdx, yearIdx := -1, -1
	t := &Table{Name: name}
	var valueIdx []int
	for i, h := range header {
		switch h {
		case ColReportYear:
			reportIdx = i
		case ColYear:
			yearIdx = i
		default:
			t.Columns = append(t.Columns, h)
			valueIdx = append(valueIdx, i)
		}
	}
	if reportIdx < 0 || yearIdx < 0 {
		return nil, eris.Errorf("extract: %s lacks %s/%s columns", path, ColReportYear, ColYear)
	}

	for n, row := range rows[1:] {
		rec := Record{Values: make(map[string]tabular.Float, len(valueIdx))}
		if rec.ReportYear, err = cellInt(row, reportIdx); err != nil {
			return nil, eris.Wrapf(err, "extract: %s row %d", path, n+2)
		}
		if rec.Year, err = cellInt(row, yearIdx); err != nil {
			return nil, eris.Wrapf(err, "extract: %s row %d", path, n+2)
		}
		for k, i := range valueIdx {
			if i >= len(row) {
				continue
			}
			v, err := tabular.ParseFloat(row[i])
			if err != nil {
				return nil, eris.Wrapf(err, "extract: %s row %d", path, n+2)
			}
			if v.Valid {
				rec.Values[t.Columns[k]] = v
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func cellInt(row []string, i int) (int, error) {
	if i >= len(row) {
		return 0, eris.New("missing year cell")
	}
	v, ok, err := tabular.ParseInt(row[i])
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, eris.New("blank year cell")
	}
	return v, nil
}
