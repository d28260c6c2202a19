package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTables = `
"بعد خانوار": household_size
"درصد خانوارهای دارای وسایل بادوام": household_appliances_access
`

const testColumns = `
_general:
  سال: Year
household_size:
  "بعد خانوار (نفر)": Household_Size_Average
household_appliances_access:
  1385:
    اتومبیل: Car
    یخچال: Refrigerator
  1395:
    "خودرو سواری": Car
    یخچال: Refrigerator
    "رایانه شخصی": PC
`

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Parse([]byte(testTables), []byte(testColumns))
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "table_names.yaml"), []byte(testTables), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "column_names.yaml"), []byte(testColumns), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"household_appliances_access", "household_size"}, s.Groups())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestCanonicalTable(t *testing.T) {
	s := testStore(t)

	name, ok := s.CanonicalTable("بعد خانوار")
	assert.True(t, ok)
	assert.Equal(t, "household_size", name)

	// Arabic yeh and kaf variants collapse to the same key.
	name, ok = s.CanonicalTable("درصد خانوارهاي داراي وسايل بادوام")
	assert.True(t, ok)
	assert.Equal(t, "household_appliances_access", name)

	_, ok = s.CanonicalTable("جدول ناشناخته")
	assert.False(t, ok)
}

func TestColumns_GeneralMerged(t *testing.T) {
	s := testStore(t)

	cols, err := s.Columns("household_size", 1370)
	require.NoError(t, err)
	assert.Equal(t, "Year", cols["سال"])
	assert.Equal(t, "Household_Size_Average", cols["بعدخانوارنفر"])

	cols, err = s.Columns("household_appliances_access", 1400)
	require.NoError(t, err)
	assert.Equal(t, "Year", cols["سال"])
}

func TestColumns_VersionFloor(t *testing.T) {
	s := testStore(t)

	tests := []struct {
		year    int
		wantKey string
	}{
		{1385, "اتومبیل"},
		{1390, "اتومبیل"},
		{1395, "خودروسواری"},
		{1402, "خودروسواری"},
	}
	for _, tt := range tests {
		cols, err := s.Columns("household_appliances_access", tt.year)
		require.NoError(t, err)
		assert.Equal(t, "Car", cols[tt.wantKey], "year %d", tt.year)
	}
}

func TestColumns_BeforeFirstVersion(t *testing.T) {
	s := testStore(t)
	_, err := s.Columns("household_appliances_access", 1380)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoVersion))
}

func TestColumns_UnknownGroup(t *testing.T) {
	s := testStore(t)
	_, err := s.Columns("nope", 1400)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownGroup))
}

func TestResolveHeader(t *testing.T) {
	s := testStore(t)

	got, err := s.ResolveHeader("household_appliances_access", 1396, []string{"سال", "خودرو سواری", "رایانه (شخصی)"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Year", "Car", "PC"}, got)
}

func TestResolveHeader_Unknown(t *testing.T) {
	s := testStore(t)

	_, err := s.ResolveHeader("household_size", 1399, []string{"سال", "درآمد"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownColumnHeader))
}

func TestResolveHeader_Pure(t *testing.T) {
	got, err := ResolveHeader([]string{"الف", "ب ب"}, map[string]string{"الف": "A", "بب": "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestParse_MixedGroup(t *testing.T) {
	_, err := Parse([]byte(testTables), []byte(`
mixed:
  سال: Year
  1390:
    الف: A
`))
	assert.Error(t, err)
}

func TestParse_ConflictingTableNames(t *testing.T) {
	// The keys differ only in whitespace, so both sanitize to "بعد خانوار".
	_, err := Parse([]byte(`
"بعد خانوار": household_size
"بعد  خانوار": household_distribution_by_members
`), []byte(`{}`))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConflictingTable))

	s, err := Parse([]byte(`
"بعد خانوار": household_size
"بعد  خانوار": household_size
`), []byte(`{}`))
	require.NoError(t, err)
	name, ok := s.CanonicalTable("بعد خانوار")
	assert.True(t, ok)
	assert.Equal(t, "household_size", name)
}

func TestParse_BadVersionKey(t *testing.T) {
	_, err := Parse([]byte(testTables), []byte(`
bad:
  early:
    الف: A
`))
	assert.Error(t, err)
}

func TestFloor(t *testing.T) {
	sorted := []int{1385, 1390, 1395}
	tests := []struct {
		v      int
		want   int
		wantOK bool
	}{
		{1380, 0, false},
		{1385, 0, true},
		{1389, 0, true},
		{1390, 1, true},
		{1400, 2, true},
	}
	for _, tt := range tests {
		got, ok := Floor(sorted, tt.v)
		assert.Equal(t, tt.wantOK, ok, "v=%d", tt.v)
		if ok {
			assert.Equal(t, tt.want, got, "v=%d", tt.v)
		}
	}
}

func TestLoad_RepositoryMetadata(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "metadata"))
	require.NoError(t, err)

	name, ok := s.CanonicalTable("متوسط بعد خانوار")
	require.True(t, ok)
	assert.Equal(t, "household_size", name)

	cols, err := s.Columns("household_appliances_access", 1390)
	require.NoError(t, err)
	assert.Contains(t, cols, "سال")
}
