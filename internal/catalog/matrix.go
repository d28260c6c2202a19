package catalog

import (
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

// ErrDuplicateTable means two available tables share a name within one year.
var ErrDuplicateTable = eris.New("catalog: duplicate table name in year")

// Matrix is the Year x Table_Name availability pivot. A missing cell means
// the table does not exist in that year's workbook.
type Matrix struct {
	years []int
	names []string
	cells map[int]map[string]string
}

// NewMatrix pivots the available entries. Table columns keep the order in
// which names first appear.
func NewMatrix(entries []Entry) (*Matrix, error) {
	m := newMatrix()
	for _, e := range entries {
		if !e.Available {
			continue
		}
		if err := m.set(e.Year, e.TableName, e.TableNumber); err != nil {
			return nil, err
		}
	}
	sort.Ints(m.years)
	return m, nil
}

func newMatrix() *Matrix {
	return &Matrix{cells: make(map[int]map[string]string)}
}

func (m *Matrix) set(year int, name, number string) error {
	row, ok := m.cells[year]
	if !ok {
		row = make(map[string]string)
		m.cells[year] = row
		m.years = append(m.years, year)
	}
	if prev, dup := row[name]; dup {
		return eris.Wrapf(ErrDuplicateTable, "year %d table %q (numbers %q and %q)", year, name, prev, number)
	}
	if !m.hasName(name) {
		m.names = append(m.names, name)
	}
	row[name] = number
	return nil
}

func (m *Matrix) hasName(name string) bool {
	for _, n := range m.names {
		if n == name {
			return true
		}
	}
	return false
}

// Years returns the years with at least one available table, ascending.
func (m *Matrix) Years() []int {
	return append([]int(nil), m.years...)
}

// Names returns the table names in column order.
func (m *Matrix) Names() []string {
	return append([]string(nil), m.names...)
}

// Lookup returns the table number of name in year. ok is false when the
// table is absent that year, which callers skip rather than treat as an error.
func (m *Matrix) Lookup(year int, name string) (string, bool) {
	number, ok := m.cells[year][name]
	return number, ok
}

// Rename returns a matrix whose columns are renamed by fn. Names fn does not
// map are kept. Several source names may map to one canonical name as long
// as no year has more than one of them.
func (m *Matrix) Rename(fn func(name string) (string, bool)) (*Matrix, error) {
	out := newMatrix()
	for _, name := range m.names {
		target := name
		if renamed, ok := fn(name); ok {
			target = renamed
		}
		for _, year := range m.years {
			number, ok := m.cells[year][name]
			if !ok {
				continue
			}
			if err := out.set(year, target, number); err != nil {
				return nil, err
			}
		}
	}
	sort.Ints(out.years)
	return out, nil
}

// Grid renders the matrix with a header row of "Year" and table names.
func (m *Matrix) Grid() [][]string {
	rows := make([][]string, 0, len(m.years)+1)
	rows = append(rows, append([]string{"Year"}, m.names...))
	for _, year := range m.years {
		row := make([]string, 0, len(m.names)+1)
		row = append(row, strconv.Itoa(year))
		for _, name := range m.names {
			row = append(row, m.cells[year][name])
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteMatrix writes the matrix grid to path.
func WriteMatrix(path string, m *Matrix) error {
	return tabular.WriteGrid(path, m.Grid())
}
