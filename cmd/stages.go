package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/catalog"
	"github.com/sells-group/hbs-summary/internal/compare"
	"github.com/sells-group/hbs-summary/internal/config"
	"github.com/sells-group/hbs-summary/internal/extract"
	"github.com/sells-group/hbs-summary/internal/household"
	"github.com/sells-group/hbs-summary/internal/metadata"
	"github.com/sells-group/hbs-summary/internal/workbook"
)

// openLibrary discovers the yearly workbooks under paths.excel_dir.
func openLibrary(c *config.Config) (*workbook.Library, error) {
	opener, err := workbook.NewOpener(c.Workbook.Engine)
	if err != nil {
		return nil, err
	}
	sources, err := workbook.Discover(c.Paths.ExcelDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, eris.Errorf("no workbooks found in %s", c.Paths.ExcelDir)
	}
	return workbook.NewLibrary(opener, sources), nil
}

// closeLibrary releases the workbooks a stage read through lib.
func closeLibrary(lib *workbook.Library) {
	if err := lib.Close(); err != nil {
		zap.L().Warn("close workbooks", zap.Error(err))
	}
}

// runIndex writes the table index and the availability matrix.
func runIndex(c *config.Config) (*catalog.Matrix, error) {
	lib, err := openLibrary(c)
	if err != nil {
		return nil, err
	}

	entries, err := catalog.BuildIndex(lib, catalog.IndexOptions{
		ContentsSheet: c.Workbook.ContentsSheet,
		HeaderRows:    c.Workbook.ContentsHeaderRows,
	})
	if err != nil {
		return nil, eris.Wrap(err, "index")
	}
	if err := catalog.WriteIndex(c.Paths.IndexFile, entries); err != nil {
		return nil, err
	}

	m, err := catalog.NewMatrix(entries)
	if err != nil {
		return nil, eris.Wrap(err, "index")
	}
	if err := catalog.WriteMatrix(c.Paths.MatrixFile, m); err != nil {
		return nil, err
	}

	zap.L().Info("index complete",
		zap.Int("entries", len(entries)),
		zap.Int("years", len(m.Years())),
		zap.Int("tables", len(m.Names())),
		zap.String("index", c.Paths.IndexFile),
		zap.String("matrix", c.Paths.MatrixFile),
	)
	return m, nil
}

// loadMatrix rebuilds the availability matrix from the index file.
func loadMatrix(c *config.Config) (*catalog.Matrix, error) {
	entries, err := catalog.ReadIndex(c.Paths.IndexFile)
	if err != nil {
		return nil, eris.Wrap(err, "load index (run 'hbs-summary index' first)")
	}
	return catalog.NewMatrix(entries)
}

// runExtract writes raw CSVs for names, or for every table when names is empty.
func runExtract(c *config.Config, names []string) (int, error) {
	lib, err := openLibrary(c)
	if err != nil {
		return 0, err
	}
	defer closeLibrary(lib)
	m, err := loadMatrix(c)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		names = m.Names()
	}

	x := extract.New(lib, m)
	total := 0
	for _, name := range names {
		written, err := x.Raw(name, c.Paths.CSVDir)
		if err != nil {
			return total, eris.Wrapf(err, "extract %q", name)
		}
		total += len(written)
		zap.L().Info("table extracted",
			zap.String("table", name),
			zap.Int("files", len(written)),
		)
	}
	return total, nil
}

// runStandardize writes one cleaned table per indicator group. Groups whose
// tables appear in no workbook are skipped.
func runStandardize(c *config.Config, groups []string) ([]string, error) {
	store, err := metadata.Load(c.Paths.MetadataDir)
	if err != nil {
		return nil, err
	}
	lib, err := openLibrary(c)
	if err != nil {
		return nil, err
	}
	defer closeLibrary(lib)
	m, err := loadMatrix(c)
	if err != nil {
		return nil, err
	}
	renamed, err := m.Rename(store.CanonicalTable)
	if err != nil {
		return nil, eris.Wrap(err, "standardize")
	}
	if len(groups) == 0 {
		groups = store.Groups()
	}

	x := extract.New(lib, renamed)
	var written []string
	for _, group := range groups {
		tbl, err := x.Standard(group, store)
		if err != nil {
			return written, err
		}
		if len(tbl.Records) == 0 {
			zap.L().Debug("group has no tables, skipping", zap.String("group", group))
			continue
		}

		path := filepath.Join(c.Paths.CleanedDir, group+".csv")
		if err := extract.WriteTable(path, tbl); err != nil {
			return written, err
		}
		written = append(written, path)
		zap.L().Info("table standardized",
			zap.String("group", group),
			zap.Int("rows", len(tbl.Records)),
			zap.Int("columns", len(tbl.Columns)),
		)
	}
	return written, nil
}

// loadHouseholds reads the household weights from the configured provider.
func loadHouseholds(ctx context.Context, c *config.Config) ([]household.Household, error) {
	p, err := household.NewProvider(c.Household.Driver, c.Household.Path, c.Household.Table)
	if err != nil {
		return nil, err
	}
	if closer, ok := p.(io.Closer); ok {
		defer closer.Close() //nolint:errcheck
	}
	return p.Households(ctx)
}

// runCompare writes the comparison files of the selected jobs.
func runCompare(ctx context.Context, c *config.Config, keys []string) ([]string, error) {
	reg, err := compare.LoadJobs(c.Paths.ComparisonsFile)
	if err != nil {
		return nil, err
	}
	jobs, err := reg.Select(keys)
	if err != nil {
		return nil, err
	}

	hs, err := loadHouseholds(ctx, c)
	if err != nil {
		return nil, err
	}
	zap.L().Info("households loaded", zap.Int("households", len(hs)))

	r := compare.NewRunner(c.Paths.CleanedDir, c.Paths.IndicatorDir, c.Paths.ComparisonDir, hs)
	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		path, err := r.Run(job)
		if err != nil {
			return written, eris.Wrapf(err, "compare %s", job.Key())
		}
		written = append(written, path)
	}
	return written, nil
}
