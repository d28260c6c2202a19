// Package catalog builds the cross-year index of survey tables from each
// workbook's table-of-contents sheet.
package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/sanitize"
	"github.com/sells-group/hbs-summary/internal/tabular"
	"github.com/sells-group/hbs-summary/internal/workbook"
)

// DefaultContentsSheet is the name of the table-of-contents sheet ("List of Tables").
const DefaultContentsSheet = "فهرست جداول"

// ErrMalformedContentsRow means a contents row has no "number: name" separator.
var ErrMalformedContentsRow = eris.New("catalog: malformed contents row")

// Entry is one table listed in one year's contents sheet.
type Entry struct {
	Year        int         `csv:"Year"`
	TableNumber string      `csv:"Table_Number"`
	TableName   string      `csv:"Table_Name"`
	Available   tabular.Bit `csv:"Available"`
}

// IndexOptions configures contents-sheet parsing.
type IndexOptions struct {
	ContentsSheet string // default DefaultContentsSheet
	HeaderRows    int    // leading title rows to skip
}

func (o IndexOptions) sheet() string {
	if o.ContentsSheet == "" {
		return DefaultContentsSheet
	}
	return o.ContentsSheet
}

// BuildIndex reads the contents sheet of every workbook in lib and stacks
// the entries, in year order.
func BuildIndex(lib *workbook.Library, opts IndexOptions) ([]Entry, error) {
	var all []Entry
	for _, year := range lib.Years() {
		b, err := lib.Open(year)
		if err != nil {
			return nil, err
		}
		entries, err := YearIndex(year, b, opts)
		_ = b.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: index year %d", year)
		}
		zap.L().Debug("indexed workbook",
			zap.Int("year", year),
			zap.Int("tables", len(entries)),
		)
		all = append(all, entries...)
	}
	return all, nil
}

// YearIndex parses the contents sheet of one workbook. A table is Available
// when its number names a sheet of the workbook.
func YearIndex(year int, b workbook.Book, opts IndexOptions) ([]Entry, error) {
	rows, err := b.Rows(opts.sheet())
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read contents sheet")
	}

	sheets := make(map[string]bool)
	for _, name := range b.SheetNames() {
		sheets[name] = true
	}

	var entries []Entry
	for i, row := range rows {
		if i < opts.HeaderRows || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		number, name, err := ParseContentsRow(row[0])
		if err != nil {
			return nil, eris.Wrapf(err, "row %d", i+1)
		}
		entries = append(entries, Entry{
			Year:        year,
			TableNumber: number,
			TableName:   name,
			Available:   tabular.Bit(sheets[number]),
		})
	}
	return entries, nil
}

// ParseContentsRow splits "number: name" on the first colon. The number is
// trimmed; the name is trimmed and sanitized.
func ParseContentsRow(text string) (number, name string, err error) {
	before, after, found := strings.Cut(text, ":")
	if !found {
		return "", "", eris.Wrapf(ErrMalformedContentsRow, "%q", text)
	}
	return strings.TrimSpace(before), sanitize.Text(strings.TrimSpace(after)), nil
}

// WriteIndex writes entries to path.
func WriteIndex(path string, entries []Entry) error {
	return tabular.WriteRecords(path, entries)
}

// ReadIndex reads an index file written by WriteIndex.
func ReadIndex(path string) ([]Entry, error) {
	var entries []Entry
	if err := tabular.ReadRecords(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
