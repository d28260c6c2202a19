package main

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/hbs-summary/internal/catalog"
	"github.com/sells-group/hbs-summary/internal/compare"
	"github.com/sells-group/hbs-summary/internal/config"
	"github.com/sells-group/hbs-summary/internal/extract"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

type testSheet struct {
	name string
	rows [][]string
}

func createTestXLSX(t *testing.T, path string, sheets ...testSheet) {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	require.NoError(t, f.Save(path))
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// testProject lays out two yearly workbooks, metadata, household weights and
// one comparison job under a temp dir.
func testProject(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	c := &config.Config{
		Paths: config.PathsConfig{
			ExcelDir:        filepath.Join(root, "Data", "Excel_Files"),
			CSVDir:          filepath.Join(root, "Data", "CSV_Files"),
			CleanedDir:      filepath.Join(root, "Data", "Cleaned_Tables"),
			ComparisonDir:   filepath.Join(root, "Data", "Comparison_Tables"),
			IndicatorDir:    filepath.Join(root, "Data", "Indicators"),
			IndexFile:       filepath.Join(root, "Data", "index.csv"),
			MatrixFile:      filepath.Join(root, "Data", "available_tables.csv"),
			MetadataDir:     filepath.Join(root, "metadata"),
			ComparisonsFile: filepath.Join(root, "comparisons.yaml"),
		},
		Workbook: config.WorkbookConfig{
			Engine:             "xlsx",
			ContentsSheet:      catalog.DefaultContentsSheet,
			ContentsHeaderRows: 1,
		},
		Household: config.HouseholdConfig{
			Driver: "csv",
			Path:   filepath.Join(root, "Data", "Indicators", "households.csv"),
		},
	}

	require.NoError(t, os.MkdirAll(c.Paths.ExcelDir, 0o755))
	contents := [][]string{
		{"فهرست جداول"},
		{"1: بعد خانوار"},
		{"2: درآمد سالانه"},
	}
	createTestXLSX(t, filepath.Join(c.Paths.ExcelDir, "1399.xlsx"),
		testSheet{catalog.DefaultContentsSheet, contents},
		testSheet{"1", [][]string{{"سال", "بعد خانوار"}, {"1398", "3.2"}, {"1399", "3.3"}}},
	)
	createTestXLSX(t, filepath.Join(c.Paths.ExcelDir, "1400.xlsx"),
		testSheet{catalog.DefaultContentsSheet, contents},
		testSheet{"1", [][]string{{"سال", "بعد خانوار"}, {"1399", "3.25"}, {"1400", "3.1"}}},
	)

	writeFile(t, filepath.Join(c.Paths.MetadataDir, "table_names.yaml"), "\"بعد خانوار\": household_size\n")
	writeFile(t, filepath.Join(c.Paths.MetadataDir, "column_names.yaml"),
		"_general:\n  سال: Year\nhousehold_size:\n  بعد خانوار: Household_Size_Average\n")

	writeFile(t, c.Household.Path, "Year,ID,Weight,Urban_Rural,CBI_Sample\n1400,1,1,Urban,1\n1400,2,3,Rural,0\n")
	writeFile(t, filepath.Join(c.Paths.IndicatorDir, "household_size.csv"), "Year,ID,Family_Size\n1400,1,4\n1400,2,2\n")
	writeFile(t, c.Paths.ComparisonsFile, `comparisons:
  - table: household_size
    column: Household_Size_Average
    source: household_size.csv
    value: Family_Size
`)
	return c
}

func TestRunPipeline(t *testing.T) {
	c := testProject(t)
	require.NoError(t, runPipeline(context.Background(), c))

	entries, err := catalog.ReadIndex(c.Paths.IndexFile)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.True(t, bool(entries[0].Available))
	assert.False(t, bool(entries[1].Available))

	for _, year := range []string{"1399", "1400"} {
		matches, err := filepath.Glob(filepath.Join(c.Paths.CSVDir, year, "*.csv"))
		require.NoError(t, err)
		assert.Len(t, matches, 1, year)
	}

	tbl, err := extract.ReadTable("household_size", filepath.Join(c.Paths.CleanedDir, "household_size.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Household_Size_Average"}, tbl.Columns)
	assert.Len(t, tbl.Records, 4)

	rows, err := compare.ReadRows(filepath.Join(c.Paths.ComparisonDir, "household_size", "Household_Size_Average.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, compare.Row{Year: 1398, CBI: tabular.Some(3.2)}, rows[0])
	assert.Equal(t, compare.Row{Year: 1399, CBI: tabular.Some(3.25)}, rows[1])
	assert.Equal(t, 1400, rows[2].Year)
	assert.InDelta(t, 3.1, rows[2].CBI.V, 1e-9)
	assert.InDelta(t, 2.5, rows[2].All.V, 1e-9)
	assert.InDelta(t, 4, rows[2].Urban.V, 1e-9)
	assert.InDelta(t, 4, rows[2].CBISample.V, 1e-9)

	lines, err := collectSummary(c)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Stats.Overlap)
	assert.InDelta(t, 0.6, lines[0].Stats.MeanAbsGap.V, 1e-9)
	assert.Equal(t, compare.LabelHouseholdSize, lines[0].Unit)

	var buf bytes.Buffer
	formatSummary(&buf, lines)
	assert.Contains(t, buf.String(), "household_size")
	assert.Contains(t, buf.String(), "0.60")
}

// csvSnapshot reads every .csv file under root, keyed by relative path.
func csvSnapshot(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".csv" {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out[rel] = data
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestRunPipeline_Deterministic(t *testing.T) {
	c := testProject(t)
	root := filepath.Dir(c.Paths.CSVDir)

	require.NoError(t, runPipeline(context.Background(), c))
	first := csvSnapshot(t, root)
	require.NotEmpty(t, first)

	require.NoError(t, runPipeline(context.Background(), c))
	second := csvSnapshot(t, root)

	require.Len(t, second, len(first))
	for path, data := range first {
		assert.Equal(t, string(data), string(second[path]), path)
	}
}

func TestRunExtract_SelectedTable(t *testing.T) {
	c := testProject(t)
	_, err := runIndex(c)
	require.NoError(t, err)

	n, err := runExtract(c, []string{"درآمد سالانه"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunStandardize_RequiresIndex(t *testing.T) {
	c := testProject(t)
	_, err := runStandardize(c, nil)
	assert.Error(t, err)
}

func TestRunIndex_NoWorkbooks(t *testing.T) {
	c := testProject(t)
	c.Paths.ExcelDir = t.TempDir()
	_, err := runIndex(c)
	assert.Error(t, err)
}

func TestCollectSummary_NoFiles(t *testing.T) {
	c := testProject(t)
	lines, err := collectSummary(c)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
