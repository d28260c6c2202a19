// Package compare aligns the reference (CBI) series published in the survey
// workbooks with weighted aggregates computed from household microdata.
package compare

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/extract"
	"github.com/sells-group/hbs-summary/internal/sci"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

// ErrUnknownColumn means the requested column is not in the standardized table.
var ErrUnknownColumn = eris.New("compare: unknown column")

// Point is one year of a reference series.
type Point struct {
	Year  int
	Value tabular.Float
}

// Series is a yearly reference series sorted by Year.
type Series []Point

// LatestRevision extracts column from t as a yearly series. When several
// workbooks report the same year, the row from the greatest Report_Year wins.
func LatestRevision(t *extract.Table, column string) (Series, error) {
	if !t.HasColumn(column) {
		return nil, eris.Wrapf(ErrUnknownColumn, "table %q column %q", t.Name, column)
	}

	recs := append([]extract.Record(nil), t.Records...)
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ReportYear != recs[j].ReportYear {
			return recs[i].ReportYear < recs[j].ReportYear
		}
		return recs[i].Year < recs[j].Year
	})

	latest := make(map[int]tabular.Float)
	for _, r := range recs {
		latest[r.Year] = r.Value(column)
	}

	points := make(Series, 0, len(latest))
	for year, v := range latest {
		points = append(points, Point{Year: year, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, nil
}

// Row is one year of a comparison table.
type Row struct {
	Year      int           `csv:"Year"`
	CBI       tabular.Float `csv:"CBI"`
	All       tabular.Float `csv:"SCI_All"`
	Urban     tabular.Float `csv:"SCI_Urban"`
	CBISample tabular.Float `csv:"SCI_CBI_Sample"`
}

// Build outer-joins the reference series and the aggregates on Year. Years
// present on one side only have nulls on the other. Rows are sorted by Year.
func Build(ref Series, agg []sci.Row) []Row {
	byYear := make(map[int]*Row)
	get := func(year int) *Row {
		r, ok := byYear[year]
		if !ok {
			r = &Row{Year: year}
			byYear[year] = r
		}
		return r
	}

	for _, p := range ref {
		get(p.Year).CBI = p.Value
	}
	for _, a := range agg {
		r := get(a.Year)
		r.All, r.Urban, r.CBISample = a.All, a.Urban, a.CBISample
	}

	rows := make([]Row, 0, len(byYear))
	for _, r := range byYear {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// WriteRows writes a comparison table to path.
func WriteRows(path string, rows []Row) error {
	return tabular.WriteRecords(path, rows)
}

// ReadRows reads a comparison table written by WriteRows.
func ReadRows(path string) ([]Row, error) {
	var rows []Row
	if err := tabular.ReadRecords(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
