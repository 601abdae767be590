package commands

import (
	"bytes"
	"dualis-watch/cmd/dualis-watch/globals"
	"dualis-watch/lib/results"
	"dualis-watch/lib/scrapers/dualis"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var parseRaw bool

func init() {
	parseCmd.PersistentFlags().BoolVar(&parseRaw, "json", false, "Print the records as a snapshot document instead of a table.")
	parseCmd.AddCommand(parseOverviewCmd, parseDetailCmd)
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract records from saved portal pages.",
}

type parseFunc func(parser dualis.Parser, cmd *cobra.Command, page []byte) ([]results.Record, error)

func parseFiles(fn parseFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		parser, err := dualis.NewParser(globals.Get(cmd.Context()).Config.Layout)
		if err != nil {
			return err
		}

		var records []results.Record
		for _, path := range args {
			page, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			parsed, err := fn(parser, cmd, page)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			records = append(records, parsed...)
		}
		records = results.Dedupe(records)

		if parseRaw {
			data, err := results.Encode(records)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		renderRecords(cmd.OutOrStdout(), records)
		return nil
	}
}

var parseOverviewCmd = &cobra.Command{
	Use:   "overview <page.html>...",
	Short: "Extract records from saved overview pages.",
	Args:  cobra.MinimumNArgs(1),
	RunE: parseFiles(func(parser dualis.Parser, cmd *cobra.Command, page []byte) ([]results.Record, error) {
		return parser.ParseOverview(cmd.Context(), bytes.NewReader(page))
	}),
}

var parseDetailCmd = &cobra.Command{
	Use:   "detail <page.html>...",
	Short: "Extract records from saved course detail pages.",
	Args:  cobra.MinimumNArgs(1),
	RunE: parseFiles(func(parser dualis.Parser, cmd *cobra.Command, page []byte) ([]results.Record, error) {
		return parser.ParseCourseDetail(cmd.Context(), bytes.NewReader(page))
	}),
}
