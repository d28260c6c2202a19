package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var standardizeGroups []string

var standardizeCmd = &cobra.Command{
	Use:   "standardize",
	Short: "Build cleaned tables with canonical column names",
	Long:  "Stacks every year's sheet of each indicator group into one cleaned table, mapping headers through the metadata files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("standardize"); err != nil {
			return err
		}
		written, err := runStandardize(cfg, standardizeGroups)
		if err != nil {
			return err
		}
		zap.L().Info("standardize complete", zap.Int("tables", len(written)), zap.String("dir", cfg.Paths.CleanedDir))
		return nil
	},
}

func init() {
	standardizeCmd.Flags().StringSliceVar(&standardizeGroups, "group", nil, "indicator group to standardize (repeatable, default all)")
	rootCmd.AddCommand(standardizeCmd)
}
