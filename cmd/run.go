package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hbs-summary/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run index, extract, standardize and compare in sequence",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("run"); err != nil {
			return err
		}
		return runPipeline(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(ctx context.Context, c *config.Config) error {
	if _, err := runIndex(c); err != nil {
		return err
	}
	files, err := runExtract(c, nil)
	if err != nil {
		return err
	}
	tables, err := runStandardize(c, nil)
	if err != nil {
		return err
	}
	comparisons, err := runCompare(ctx, c, nil)
	if err != nil {
		return err
	}

	zap.L().Info("run complete",
		zap.Int("raw_files", files),
		zap.Int("cleaned_tables", len(tables)),
		zap.Int("comparisons", len(comparisons)),
	)
	return nil
}
