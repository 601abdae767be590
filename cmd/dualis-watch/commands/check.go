package commands

import (
	"dualis-watch/cmd/dualis-watch/globals"
	"log/slog"

	"github.com/spf13/cobra"
)

var checkShowAll bool

func init() {
	checkCmd.Flags().BoolVarP(&checkShowAll, "all", "a", false, "Print every extracted record, not only the newly graded ones.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the portal once, notify about newly graded courses and store the new snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := globals.Get(ctx).Config

		w, release, err := buildWatcher(ctx, cfg)
		if err != nil {
			return err
		}
		defer release()

		run, err := w.Run(ctx)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "check finished",
			"records", len(run.Records),
			"history", run.History.String(),
			"transitions", len(run.Transitions),
		)

		if checkShowAll {
			renderRecords(cmd.OutOrStdout(), run.Records)
		}
		renderTransitions(cmd.OutOrStdout(), run.Transitions)
		return nil
	},
}
