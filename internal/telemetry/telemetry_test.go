package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := &Recorder{}
	scoped := NewScopedAPI("watcher", recorder)

	scoped.ReportBroken("run", "err")
	scoped.ReportWarning("snapshot-corrupt")
	scoped.ReportDebug("fetched page", 1)
	scoped.ReportCount("records", 12)

	require.Len(t, recorder.Find("broken", "watcher:run"), 1)
	require.Equal(t, []any{"err"}, recorder.Find("broken", "watcher:run")[0].Params)
	require.Len(t, recorder.Find("warning", "watcher:snapshot-corrupt"), 1)
	require.Len(t, recorder.Find("debug", "watcher: fetched page"), 1)
	require.Equal(t, []any{int64(12)}, recorder.Find("count", "watcher:records")[0].Params)
	require.Equal(t, 0, recorder.Count("missing"))
}

func TestSlogAPI(t *testing.T) {
	out := &bytes.Buffer{}
	var api API = SlogAPI{
		Logger: slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	api.ReportBroken("watcher:login", "bad credentials")
	api.ReportWarning("watcher:snapshot-corrupt")
	api.ReportDebug("fetched page", 3)
	api.ReportCount("watcher:records", 12)

	logs := out.String()
	require.Contains(t, logs, `msg="broken component" id=watcher:login params.0="bad credentials"`)
	require.Contains(t, logs, "level=WARN msg=warning id=watcher:snapshot-corrupt")
	require.Contains(t, logs, `msg="fetched page" params.0=3`)
	require.Contains(t, logs, "id=watcher:records n=12")

	SlogAPI{}.ReportDebug("falls back to the default logger")
}
