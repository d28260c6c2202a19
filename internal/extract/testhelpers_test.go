package extract

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/hbs-summary/internal/catalog"
	"github.com/sells-group/hbs-summary/internal/metadata"
	"github.com/sells-group/hbs-summary/internal/workbook"
)

// yearBook describes the data sheets of one year's workbook. Rows in floats
// are appended to the sheet of the same name as numeric cells.
type yearBook struct {
	year   int
	sheets map[string][][]string
	floats map[string][][]float64
}

func buildLibrary(t *testing.T, books ...yearBook) *workbook.Library {
	t.Helper()
	dir := t.TempDir()
	for _, b := range books {
		f := xlsx.NewFile()
		added := make(map[string]*xlsx.Sheet)
		sheetFor := func(name string) *xlsx.Sheet {
			if sh, ok := added[name]; ok {
				return sh
			}
			sh, err := f.AddSheet(name)
			require.NoError(t, err)
			added[name] = sh
			return sh
		}
		for name, rows := range b.sheets {
			sheet := sheetFor(name)
			for _, rowData := range rows {
				row := sheet.AddRow()
				for _, v := range rowData {
					row.AddCell().SetString(v)
				}
			}
		}
		for name, rows := range b.floats {
			sheet := sheetFor(name)
			for _, rowData := range rows {
				row := sheet.AddRow()
				for _, v := range rowData {
					row.AddCell().SetFloat(v)
				}
			}
		}
		require.NoError(t, f.Save(filepath.Join(dir, fmt.Sprintf("%d.xlsx", b.year))))
	}
	sources, err := workbook.Discover(dir)
	require.NoError(t, err)
	return workbook.NewLibrary(workbook.OpenerFunc(workbook.OpenXLSX), sources)
}

func buildMatrix(t *testing.T, entries ...catalog.Entry) *catalog.Matrix {
	t.Helper()
	for i := range entries {
		entries[i].Available = true
	}
	m, err := catalog.NewMatrix(entries)
	require.NoError(t, err)
	return m
}

const testColumns = `
_general:
  سال: Year
household_size:
  1390:
    بعد خانوار: Household_Size_Average
  1395:
    "متوسط بعد خانوار (نفر)": Household_Size_Average
    "شهری": Urban
`

func testStore(t *testing.T) *metadata.Store {
	t.Helper()
	s, err := metadata.Parse([]byte(`{}`), []byte(testColumns))
	require.NoError(t, err)
	return s
}
