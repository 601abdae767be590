package commands

import (
	"dualis-watch/cmd/dualis-watch/globals"
	"dualis-watch/lib/results"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var findLimit int

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 5, "The maximum amount of matches to print.")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <query>...",
	Short: "Find a course in the stored snapshot by (approximate) name or id.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd.Context(), globals.Get(cmd.Context()).Config)
		if err != nil {
			return err
		}

		matches := results.Search(records, strings.Join(args, " "), findLimit)
		if len(matches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching courses.")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Name", "Graded", "Similarity"})
		for _, m := range matches {
			t.AppendRow(table.Row{
				m.Record.ID,
				m.Record.Name,
				gradedMark(m.Record.Graded),
				fmt.Sprintf("%.2f", m.Similarity),
			})
		}
		t.Render()
		return nil
	},
}
