package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name string
	rows [][]string
}

func createTestXLSX(t *testing.T, dir, file string, sheets ...testSheet) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(dir, file)
	require.NoError(t, f.Save(path))
	return path
}

func createTestExcelize(t *testing.T, dir, file string, sheets ...testSheet) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, rowData := range s.rows {
			for c, v := range rowData {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr(s.name, cell, v))
			}
		}
	}
	path := filepath.Join(dir, file)
	require.NoError(t, f.SaveAs(path))
	return path
}

// createNumericXLSX writes one sheet of numeric cells with tealeg/xlsx.
func createNumericXLSX(t *testing.T, dir, file, name string, rows [][]float64) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, v := range rowData {
			row.AddCell().SetFloat(v)
		}
	}
	path := filepath.Join(dir, file)
	require.NoError(t, f.Save(path))
	return path
}

// createNumericExcelize writes one sheet of numeric cells with excelize.
func createNumericExcelize(t *testing.T, dir, file, name string, rows [][]float64) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", name))
	for r, rowData := range rows {
		for c, v := range rowData {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellFloat(name, cell, v, -1, 64))
		}
	}
	path := filepath.Join(dir, file)
	require.NoError(t, f.SaveAs(path))
	return path
}
