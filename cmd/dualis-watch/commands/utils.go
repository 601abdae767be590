package commands

import (
	"context"
	"dualis-watch/internal/chrono"
	"dualis-watch/internal/config"
	"dualis-watch/internal/telemetry"
	"dualis-watch/internal/watcher"
	"dualis-watch/lib/restyutil"
	"dualis-watch/lib/results"
	"dualis-watch/lib/scrapers/dualis"
	"dualis-watch/lib/scrapers/dualis/core"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func gradedMark(graded bool) string {
	if graded {
		return "yes"
	}
	return "no"
}

func renderRecords(out io.Writer, records []results.Record) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Graded"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.ID, r.Name, gradedMark(r.Graded)})
	}
	stats := results.Summary(records)
	t.AppendFooter(table.Row{"", "", "graded", strconv.Itoa(stats.Graded) + "/" + strconv.Itoa(stats.Total)})
	t.Render()
}

func renderTransitions(out io.Writer, transitions []results.Transition) {
	if len(transitions) == 0 {
		fmt.Fprintln(out, "No newly graded courses.")
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, tr := range transitions {
		t.AppendRow(table.Row{tr.ID(), tr.Name()})
	}
	t.Render()
}

// buildWatcher wires the configured portal client, store and notifiers.
// The returned function releases all of them.
func buildWatcher(ctx context.Context, cfg config.Config) (watcher.Watcher, func(), error) {
	creds, err := config.ReadCredentials()
	if err != nil {
		return watcher.Watcher{}, nil, fmt.Errorf("read credentials: %w", err)
	}
	mode, err := watcher.ParseMode(cfg.Mode)
	if err != nil {
		return watcher.Watcher{}, nil, err
	}
	parser, err := dualis.NewParser(cfg.Layout)
	if err != nil {
		return watcher.Watcher{}, nil, err
	}

	var output restyutil.InstrumentOutput
	if cfg.Http.DumpDir != "" {
		output, err = restyutil.NewFilesystemOutput(cfg.Http.DumpDir)
		if err != nil {
			return watcher.Watcher{}, nil, err
		}
	}

	client, err := core.NewClient(ctx, core.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		Timeout:           cfg.Http.TimeoutDuration(),
		RequestsPerSecond: cfg.Http.RequestsPerSecond,
		CloudflareBypass:  cfg.Http.CloudflareBypass,
		Output:            output,
	})
	if err != nil {
		return watcher.Watcher{}, nil, fmt.Errorf("create client: %w", err)
	}

	store, closeStore, err := cfg.Store.Open(ctx)
	if err != nil {
		return watcher.Watcher{}, nil, fmt.Errorf("open store: %w", err)
	}
	notifier, closeNotifier, err := cfg.Notify.Build(ctx)
	if err != nil {
		closeStore()
		return watcher.Watcher{}, nil, fmt.Errorf("build notifiers: %w", err)
	}

	w := watcher.New(watcher.Options{
		Fetcher:     client,
		Parser:      parser,
		Store:       store,
		Notifier:    notifier,
		Time:        chrono.NewStandardTime(),
		Tel:         telemetry.SlogAPI{},
		Username:    creds.Username,
		Password:    creds.Password,
		Mode:        mode,
		Base:        client.BaseUrl,
		Concurrency: cfg.Concurrency,
	})
	return w, func() {
		err := errors.Join(closeNotifier(), closeStore())
		if err != nil {
			telemetry.SlogAPI{}.ReportWarning("close", err)
		}
	}, nil
}

// loadRecords reads the stored snapshot, an absent snapshot is an error.
func loadRecords(ctx context.Context, cfg config.Config) ([]results.Record, error) {
	store, closeStore, err := cfg.Store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	history, err := results.LoadSnapshot(ctx, store)
	if err != nil {
		return nil, err
	}
	switch history.Status {
	case results.HistoryNotFound:
		return nil, errors.New("no snapshot has been stored yet, run `dualis-watch check` first")
	case results.HistoryCorrupt:
		return nil, fmt.Errorf("stored snapshot is unreadable: %w", history.Err)
	}
	return history.Records, nil
}
