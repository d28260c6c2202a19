package compare

import (
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hbs-summary/internal/extract"
	"github.com/sells-group/hbs-summary/internal/sci"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

func sizeTable() *extract.Table {
	return &extract.Table{
		Name:    "household_size",
		Columns: []string{"Household_Size_Average"},
		Records: []extract.Record{
			{ReportYear: 1399, Year: 1398, Values: map[string]tabular.Float{"Household_Size_Average": tabular.Some(3.3)}},
			{ReportYear: 1398, Year: 1398, Values: map[string]tabular.Float{"Household_Size_Average": tabular.Some(3.2)}},
			{ReportYear: 1398, Year: 1397, Values: map[string]tabular.Float{"Household_Size_Average": tabular.Some(3.4)}},
			{ReportYear: 1400, Year: 1399, Values: map[string]tabular.Float{}},
		},
	}
}

func TestLatestRevision(t *testing.T) {
	s, err := LatestRevision(sizeTable(), "Household_Size_Average")
	require.NoError(t, err)

	assert.Equal(t, Series{
		{Year: 1397, Value: tabular.Some(3.4)},
		{Year: 1398, Value: tabular.Some(3.3)},
		{Year: 1399, Value: tabular.Null()},
	}, s)
}

func TestLatestRevision_UnknownColumn(t *testing.T) {
	_, err := LatestRevision(sizeTable(), "Urban")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownColumn))
}

func TestBuild_OuterJoin(t *testing.T) {
	ref := Series{{Year: 1398, Value: tabular.Some(10)}}
	agg := []sci.Row{{Year: 1399, All: tabular.Some(20)}}

	rows := Build(ref, agg)
	assert.Equal(t, []Row{
		{Year: 1398, CBI: tabular.Some(10)},
		{Year: 1399, All: tabular.Some(20)},
	}, rows)
}

func TestBuild_CoversBothSides(t *testing.T) {
	ref := Series{
		{Year: 1390, Value: tabular.Some(1)},
		{Year: 1392, Value: tabular.Some(2)},
	}
	agg := []sci.Row{
		{Year: 1392, All: tabular.Some(2.5), Urban: tabular.Some(3)},
		{Year: 1391, CBISample: tabular.Some(4)},
	}

	rows := Build(ref, agg)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1390, 1391, 1392}, []int{rows[0].Year, rows[1].Year, rows[2].Year})
	assert.Equal(t, Row{Year: 1392, CBI: tabular.Some(2), All: tabular.Some(2.5), Urban: tabular.Some(3)}, rows[2])
	assert.False(t, rows[1].CBI.Valid)
	assert.Equal(t, tabular.Some(4), rows[1].CBISample)
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil, nil))
}

func TestWriteReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household_size", "Household_Size_Average.csv")
	rows := []Row{
		{Year: 1398, CBI: tabular.Some(10)},
		{Year: 1399, All: tabular.Some(20), Urban: tabular.Some(21.5)},
	}
	require.NoError(t, WriteRows(path, rows))

	got, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
