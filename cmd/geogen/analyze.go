package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geogen/analyze"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input_csv> <output_path>",
	Short: "Group a generated CSV dataset into equivalence classes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := analyze.Run(args[0], args[1])
		if err != nil {
			return err
		}
		if sum.Skipped > 0 {
			logger.Warn("rows skipped", zap.Int("skipped", sum.Skipped))
		}
		fmt.Print(sum)
		return nil
	},
}
