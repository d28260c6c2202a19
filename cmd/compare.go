package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compareJobs []string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare published series with weighted household aggregates",
	Long:  "Runs the jobs declared in the comparisons file and writes one comparison table per (table, column) pair.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("compare"); err != nil {
			return err
		}
		written, err := runCompare(cmd.Context(), cfg, compareJobs)
		if err != nil {
			return err
		}
		zap.L().Info("compare complete", zap.Int("files", len(written)), zap.String("dir", cfg.Paths.ComparisonDir))
		return nil
	},
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareJobs, "job", nil, "job as table/column, or a table name for all its columns (repeatable, default all)")
	rootCmd.AddCommand(compareCmd)
}
