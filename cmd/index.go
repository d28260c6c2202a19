package main

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the table index and availability matrix",
	Long:  "Reads the contents sheet of every yearly workbook and writes the table index and the year-by-table availability matrix.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("index"); err != nil {
			return err
		}
		_, err := runIndex(cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
