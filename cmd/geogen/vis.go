package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geogen/dataset"
	"geogen/vis"
)

var visCmd = &cobra.Command{
	Use:   "vis <dataset> <row> <output_dot>",
	Short: "Render the proof DAG of one dataset row as Graphviz DOT",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("row index %q is not a number: %w", args[1], err)
		}

		rows, skipped, err := dataset.Read(args[0])
		if err != nil {
			return err
		}
		if skipped > 0 {
			logger.Warn("rows skipped", zap.Int("skipped", skipped))
		}
		if row < 0 || row >= len(rows) {
			return fmt.Errorf("row %d out of range, dataset has %d rows", row, len(rows))
		}

		out, err := vis.Render(rows[row].Proof)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if err := os.WriteFile(args[2], out, 0o644); err != nil {
			return fmt.Errorf("writing dot file: %w", err)
		}
		logger.Info("proof rendered", zap.String("sample", rows[row].ID), zap.String("out", args[2]))
		return nil
	},
}
