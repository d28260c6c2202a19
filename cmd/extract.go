package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractTables []string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract raw tables to CSV",
	Long:  "Writes one sanitized, headerless CSV per year for each table in the availability matrix.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("extract"); err != nil {
			return err
		}
		n, err := runExtract(cfg, extractTables)
		if err != nil {
			return err
		}
		zap.L().Info("extract complete", zap.Int("files", n), zap.String("dir", cfg.Paths.CSVDir))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractTables, "table", nil, "table name to extract (repeatable, default all)")
	rootCmd.AddCommand(extractCmd)
}
