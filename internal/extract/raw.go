// Package extract pulls survey tables out of the yearly workbooks, either as
// sanitized raw grids or as standardized long-format tables.
package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/catalog"
	"github.com/sells-group/hbs-summary/internal/sanitize"
	"github.com/sells-group/hbs-summary/internal/tabular"
	"github.com/sells-group/hbs-summary/internal/workbook"
)

// numberingRe matches a table number ending in a lone digit ("جدول 5").
var numberingRe = regexp.MustCompile(`(^| )([0-9])$`)

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "-", `\`, "-")

// FixNumbering pads a trailing single digit with a Persian zero so that
// "جدول 5" sorts before "جدول 10" both lexically and naturally.
func FixNumbering(number string) string {
	return numberingRe.ReplaceAllString(number, "${1}۰${2}")
}

// RawFileName is the file name of a raw extract: "<number>-<name>.csv" with
// the numbering fix applied and spaces replaced by underscores.
func RawFileName(number, name string) string {
	return fileNameReplacer.Replace(FixNumbering(number)+"-"+name) + ".csv"
}

// Extractor reads tables named in an availability matrix out of a workbook library.
type Extractor struct {
	lib    *workbook.Library
	matrix *catalog.Matrix
}

// New creates an Extractor.
func New(lib *workbook.Library, matrix *catalog.Matrix) *Extractor {
	return &Extractor{lib: lib, matrix: matrix}
}

// Raw writes one headerless CSV per year in which table name exists, under
// outDir/<year>/. Years without the table are skipped. It returns the paths
// written.
func (x *Extractor) Raw(name, outDir string) ([]string, error) {
	var written []string
	for _, year := range x.matrix.Years() {
		number, ok := x.matrix.Lookup(year, name)
		if !ok {
			zap.L().Debug("table not in workbook, skipping",
				zap.Int("year", year),
				zap.String("table", name),
			)
			continue
		}

		rows, err := x.lib.Sheet(year, number)
		if err != nil {
			return written, eris.Wrapf(err, "extract: raw %q year %d", name, year)
		}
		for _, row := range rows {
			sanitize.Row(row)
		}

		path := filepath.Join(outDir, strconv.Itoa(year), RawFileName(number, name))
		if err := tabular.WriteGrid(path, rows); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
