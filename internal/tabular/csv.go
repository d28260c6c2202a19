package tabular

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteGrid writes rows to path as CSV, creating parent directories and
// replacing any existing file.
func WriteGrid(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "tabular: create dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "tabular: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "tabular: write %s", path)
	}
	return eris.Wrapf(f.Close(), "tabular: close %s", path)
}

// ReadGrid reads a CSV file into rows. Rows may have different lengths.
func ReadGrid(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: read %s", path)
	}
	return rows, nil
}

// WriteRecords encodes a slice of tagged structs to path with a header row.
func WriteRecords(path string, v any) error {
	b, err := csvutil.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "tabular: encode %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "tabular: create dir for %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, b, 0o644), "tabular: write %s", path)
}

// ReadRecords decodes a headered CSV file into a pointer to a slice of
// tagged structs.
func ReadRecords(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "tabular: read %s", path)
	}
	return eris.Wrapf(csvutil.Unmarshal(b, v), "tabular: decode %s", path)
}
