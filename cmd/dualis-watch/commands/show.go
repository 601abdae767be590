package commands

import (
	"dualis-watch/cmd/dualis-watch/globals"

	"github.com/spf13/cobra"
)

var showGradedOnly bool

func init() {
	showCmd.Flags().BoolVar(&showGradedOnly, "graded", false, "Only print graded courses.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd.Context(), globals.Get(cmd.Context()).Config)
		if err != nil {
			return err
		}
		if showGradedOnly {
			graded := records[:0]
			for _, r := range records {
				if r.Graded {
					graded = append(graded, r)
				}
			}
			records = graded
		}
		renderRecords(cmd.OutOrStdout(), records)
		return nil
	},
}
