package commands

import (
	"context"
	"dualis-watch/cmd/dualis-watch/globals"
	"dualis-watch/internal/config"
	"dualis-watch/lib/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

var (
	configPath string
	envPath    string
	verbose    bool
)

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:           "dualis-watch",
	Short:         "dualis-watch checks the Dualis result portal and reports newly graded courses.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		err := config.LoadEnv(envPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		cfg, err := config.Read(configPath)
		if err != nil {
			return err
		}

		var attrs []attribute.KeyValue
		if portal, err := url.Parse(cfg.BaseUrl); err == nil {
			attrs = append(attrs, telemetry.PortalHost(portal.Host))
		}
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "dualis-watch", attrs...)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:     cfg,
			ConfigPath: configPath,
			Verbose:    verbose,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(context.WithoutCancel(cmd.Context()))
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dualis.json5", "The config file to read.")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "A dotenv file holding DUALIS_EMAIL and DUALIS_PASSWORD.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
