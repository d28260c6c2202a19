package workbook

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

type excelizeBook struct {
	f *excelize.File
}

// OpenExcelize opens a workbook with excelize. It keeps a file handle open
// until Close.
func OpenExcelize(path string) (Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "excelize: open file")
	}
	return &excelizeBook{f: f}, nil
}

func (b *excelizeBook) SheetNames() []string {
	return b.f.GetSheetList()
}

func (b *excelizeBook) Rows(name string) ([][]string, error) {
	if idx, err := b.f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, eris.Errorf("excelize: sheet %q not found", name)
	}
	rows, err := b.f.GetRows(name)
	if err != nil {
		return nil, eris.Wrapf(err, "excelize: read sheet %q", name)
	}
	return rows, nil
}

func (b *excelizeBook) Close() error {
	return eris.Wrap(b.f.Close(), "excelize: close")
}
