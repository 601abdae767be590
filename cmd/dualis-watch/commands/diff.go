package commands

import (
	"dualis-watch/lib/results"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(diffCmd)
}

func readSnapshotFile(path string) ([]results.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := results.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

var diffCmd = &cobra.Command{
	Use:   "diff <previous.json> <current.json>",
	Short: "List the courses that became graded between two snapshot files.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		previous, err := readSnapshotFile(args[0])
		if err != nil {
			return err
		}
		current, err := readSnapshotFile(args[1])
		if err != nil {
			return err
		}
		renderTransitions(cmd.OutOrStdout(), results.Diff(previous, current))
		return nil
	},
}
