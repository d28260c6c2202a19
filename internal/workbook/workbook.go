// Package workbook opens the yearly survey workbooks and exposes their
// sheets as plain string grids.
package workbook

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// Book is an opened workbook.
type Book interface {
	// SheetNames returns sheet names in workbook order.
	SheetNames() []string

	// Rows returns every row of the named sheet as text, with no header
	// interpretation. Rows may have different lengths.
	Rows(sheet string) ([][]string, error)

	Close() error
}

// Opener opens a workbook file.
type Opener interface {
	Open(path string) (Book, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Book, error)

// Open calls fn(path).
func (fn OpenerFunc) Open(path string) (Book, error) { return fn(path) }

// Engine names a workbook parsing backend.
type Engine string

const (
	EngineXLSX     Engine = "xlsx"
	EngineExcelize Engine = "excelize"
)

// NewOpener returns the opener for the named engine.
func NewOpener(engine string) (Opener, error) {
	switch Engine(strings.ToLower(engine)) {
	case EngineXLSX, "":
		return OpenerFunc(OpenXLSX), nil
	case EngineExcelize:
		return OpenerFunc(OpenExcelize), nil
	default:
		return nil, eris.Errorf("workbook: unknown engine %q (valid: xlsx, excelize)", engine)
	}
}

// Source is one survey year's workbook on disk.
type Source struct {
	Year int
	Path string
}

// Discover lists the .xlsx files in dir, taking each file's year from its
// name ("1399.xlsx" is year 1399). Sources are sorted by year.
func Discover(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: read dir %s", dir)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xlsx") {
			continue
		}
		// Lock files left by spreadsheet editors.
		if strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		year, err := strconv.Atoi(strings.TrimSpace(stem))
		if err != nil {
			return nil, eris.Wrapf(err, "workbook: file %s is not named by year", e.Name())
		}
		sources = append(sources, Source{Year: year, Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Year < sources[j].Year })
	return sources, nil
}

// Library resolves survey years to opened workbooks. Books read through
// Sheet stay open until Close.
type Library struct {
	opener  Opener
	sources map[int]string
	years   []int

	mu    sync.Mutex
	books map[int]Book
}

// NewLibrary builds a Library over the given sources.
func NewLibrary(opener Opener, sources []Source) *Library {
	l := &Library{
		opener:  opener,
		sources: make(map[int]string, len(sources)),
		books:   make(map[int]Book),
	}
	for _, s := range sources {
		if _, dup := l.sources[s.Year]; !dup {
			l.years = append(l.years, s.Year)
		}
		l.sources[s.Year] = s.Path
	}
	sort.Ints(l.years)
	return l
}

// Years returns the survey years in ascending order.
func (l *Library) Years() []int {
	return append([]int(nil), l.years...)
}

// Open opens the workbook for year.
func (l *Library) Open(year int) (Book, error) {
	path, ok := l.sources[year]
	if !ok {
		return nil, eris.Errorf("workbook: no workbook for year %d", year)
	}
	b, err := l.opener.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open year %d", year)
	}
	return b, nil
}

// Sheet returns the rows of one sheet of the workbook for year. The
// workbook is parsed once and reused by later calls.
func (l *Library) Sheet(year int, sheet string) ([][]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.books[year]
	if !ok {
		var err error
		b, err = l.Open(year)
		if err != nil {
			return nil, err
		}
		l.books[year] = b
	}
	return b.Rows(sheet)
}

// Close closes every workbook cached by Sheet. The Library stays usable.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	for year, b := range l.books {
		if err := b.Close(); err != nil && first == nil {
			first = eris.Wrapf(err, "workbook: close year %d", year)
		}
		delete(l.books, year)
	}
	return first
}
