package workbook

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

type xlsxBook struct {
	f *xlsx.File
}

// OpenXLSX opens a workbook with tealeg/xlsx.
func OpenXLSX(path string) (Book, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	return &xlsxBook{f: f}, nil
}

func (b *xlsxBook) SheetNames() []string {
	names := make([]string, 0, len(b.f.Sheets))
	for _, s := range b.f.Sheets {
		names = append(names, s.Name)
	}
	return names
}

func (b *xlsxBook) Rows(name string) ([][]string, error) {
	sheet, ok := b.f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", name)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func (b *xlsxBook) Close() error { return nil }

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return []string{}
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}
