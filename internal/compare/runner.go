package compare

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/extract"
	"github.com/sells-group/hbs-summary/internal/household"
	"github.com/sells-group/hbs-summary/internal/sci"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

// Runner executes comparison jobs against cleaned tables and household
// indicator files. Tables and indicator grids are read once per run.
type Runner struct {
	CleanedDir   string
	IndicatorDir string
	OutDir       string
	Households   []household.Household

	tables map[string]*extract.Table
	grids  map[string][][]string
}

// NewRunner creates a Runner.
func NewRunner(cleanedDir, indicatorDir, outDir string, hs []household.Household) *Runner {
	return &Runner{
		CleanedDir:   cleanedDir,
		IndicatorDir: indicatorDir,
		OutDir:       outDir,
		Households:   hs,
		tables:       make(map[string]*extract.Table),
		grids:        make(map[string][][]string),
	}
}

// OutputPath is where the comparison file of job is written.
func (r *Runner) OutputPath(job Job) string {
	return filepath.Join(r.OutDir, job.Table, job.Column+".csv")
}

// Rows computes the comparison table of job without writing it.
func (r *Runner) Rows(job Job) ([]Row, error) {
	table, err := r.table(job.Table)
	if err != nil {
		return nil, err
	}
	ref, err := LatestRevision(table, job.Column)
	if err != nil {
		return nil, err
	}

	agg, err := r.aggregate(job)
	if err != nil {
		return nil, err
	}
	return Build(ref, agg), nil
}

// Run computes job and writes its comparison file, returning the path.
func (r *Runner) Run(job Job) (string, error) {
	rows, err := r.Rows(job)
	if err != nil {
		return "", err
	}
	path := r.OutputPath(job)
	if err := WriteRows(path, rows); err != nil {
		return "", err
	}
	zap.L().Info("comparison written",
		zap.String("table", job.Table),
		zap.String("column", job.Column),
		zap.Int("years", len(rows)),
		zap.String("path", path),
	)
	return path, nil
}

func (r *Runner) aggregate(job Job) ([]sci.Row, error) {
	grid, err := r.grid(job.Source)
	if err != nil {
		return nil, err
	}
	obs, err := job.Observations(grid)
	if err != nil {
		return nil, err
	}
	agg := sci.Aggregate(obs, r.Households)

	if job.ShareOf != nil {
		denGrid, err := r.grid(job.ShareOf.Source)
		if err != nil {
			return nil, err
		}
		denObs, err := MeasureObservations(*job.ShareOf, denGrid)
		if err != nil {
			return nil, err
		}
		return sci.Share(agg, sci.Aggregate(denObs, r.Households)), nil
	}
	if job.Percent {
		return sci.Scale(agg, 100), nil
	}
	return agg, nil
}

func (r *Runner) table(name string) (*extract.Table, error) {
	if t, ok := r.tables[name]; ok {
		return t, nil
	}
	t, err := extract.ReadTable(name, filepath.Join(r.CleanedDir, name+".csv"))
	if err != nil {
		return nil, err
	}
	r.tables[name] = t
	return t, nil
}

func (r *Runner) grid(source string) ([][]string, error) {
	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.IndicatorDir, source)
	}
	if g, ok := r.grids[path]; ok {
		return g, nil
	}
	g, err := tabular.ReadGrid(path)
	if err != nil {
		return nil, err
	}
	r.grids[path] = g
	return g, nil
}
