package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/compare"
	"github.com/sells-group/hbs-summary/internal/config"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

// summaryLine is one comparison file's agreement with its unit.
type summaryLine struct {
	Job   compare.Job
	Unit  string
	Stats compare.Agreement
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show agreement statistics per comparison file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("summary"); err != nil {
			return err
		}
		lines, err := collectSummary(cfg)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			zap.L().Info("no comparison files found, run 'hbs-summary compare' first")
			return nil
		}
		formatSummary(os.Stdout, lines)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// collectSummary summarizes every job whose comparison file exists.
func collectSummary(c *config.Config) ([]summaryLine, error) {
	reg, err := compare.LoadJobs(c.Paths.ComparisonsFile)
	if err != nil {
		return nil, err
	}

	r := compare.NewRunner(c.Paths.CleanedDir, c.Paths.IndicatorDir, c.Paths.ComparisonDir, nil)
	var lines []summaryLine
	for _, job := range reg.All() {
		path := r.OutputPath(job)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			zap.L().Debug("comparison file missing, skipping", zap.String("job", job.Key()))
			continue
		}
		rows, err := compare.ReadRows(path)
		if err != nil {
			return nil, err
		}
		a, err := compare.Summarize(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "summary %s", job.Key())
		}
		unit, _ := compare.AxisLabel(job.Table)
		lines = append(lines, summaryLine{Job: job, Unit: unit, Stats: a})
	}
	return lines, nil
}

// formatSummary writes a tabular representation of summary lines to out.
func formatSummary(out io.Writer, lines []summaryLine) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TABLE\tCOLUMN\tUNIT\tYEARS\tOVERLAP\tMEAN GAP\tMAX GAP\tCORR")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t-----\t-------\t--------\t-------\t----")

	for _, l := range lines {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			l.Job.Table,
			l.Job.Column,
			l.Unit,
			l.Stats.Years,
			l.Stats.Overlap,
			formatFloat(l.Stats.MeanAbsGap, 2),
			formatFloat(l.Stats.MaxAbsGap, 2),
			formatFloat(l.Stats.Correlation, 3),
		)
	}
	_ = w.Flush()
}

func formatFloat(f tabular.Float, prec int) string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.V, 'f', prec, 64)
}
