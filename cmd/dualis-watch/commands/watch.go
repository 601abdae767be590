package commands

import (
	"dualis-watch/cmd/dualis-watch/globals"
	"dualis-watch/internal/chrono"
	itelemetry "dualis-watch/internal/telemetry"
	"dualis-watch/internal/watcher"
	"dualis-watch/lib/telemetry"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check the portal on the configured schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := globals.Get(ctx).Config

		w, release, err := buildWatcher(ctx, cfg)
		if err != nil {
			return err
		}
		defer release()

		telemetry.InstrumentPerfStats(ctx, time.Minute)

		check := func() {
			run, err := w.Run(ctx)
			if watcher.IsMalformed(err) {
				slog.ErrorContext(ctx, "portal returned a page that could not be read, the snapshot was left untouched", "err", err)
				return
			}
			if err != nil {
				slog.ErrorContext(ctx, "check failed", "err", err)
				return
			}
			slog.InfoContext(ctx, "check finished",
				"records", len(run.Records),
				"history", run.History.String(),
				"transitions", len(run.Transitions),
			)
		}

		cron := chrono.NewStandardCron(itelemetry.SlogAPI{})
		err = cron.Cron(cfg.Schedule, check)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "watching for new results", "schedule", cfg.Schedule)
		check()

		<-ctx.Done()
		slog.Info("stopping, waiting for a running check to finish")
		<-cron.Stop().Done()
		return nil
	},
}
