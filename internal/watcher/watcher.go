package watcher

import (
	"bytes"
	"context"
	"dualis-watch/internal/assert"
	"dualis-watch/internal/chrono"
	"dualis-watch/internal/telemetry"
	"dualis-watch/lib/notify"
	"dualis-watch/lib/results"
	"dualis-watch/lib/scrapers/dualis"
	"dualis-watch/lib/snapshotstore"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dualis-watch/watcher")

const (
	report_login            = "login"
	report_logout           = "logout"
	report_fetch_overview   = "fetch-overview"
	report_fetch_listing    = "fetch-listing"
	report_fetch_detail     = "fetch-detail"
	report_snapshot_corrupt = "snapshot-corrupt"
	report_notify           = "notify"
	report_save             = "save-snapshot"
)

// Fetcher retrieves raw pages from the portal, it is implemented by
// *core.Client.
type Fetcher interface {
	Login(ctx context.Context, username, password string) error
	Overview(ctx context.Context) ([]byte, error)
	SemesterListing(ctx context.Context, semester string) ([]byte, error)
	Page(ctx context.Context, link string) ([]byte, error)
	Logout(ctx context.Context) error
}

type Mode int

const (
	// one overview page lists every course
	ModeOverview Mode = iota
	// semester listings are walked and every detail page is parsed
	ModeCourses
)

func ParseMode(mode string) (Mode, error) {
	switch mode {
	case "", "overview":
		return ModeOverview, nil
	case "courses":
		return ModeCourses, nil
	}
	return 0, fmt.Errorf("unknown mode '%s'", mode)
}

type Options struct {
	Fetcher Fetcher
	// defaults to dualis.Default()
	Parser   dualis.Parser
	Store    snapshotstore.Store
	Notifier notify.Notifier
	Time     chrono.TimeAPI
	Tel      telemetry.API

	Username string
	Password string
	Mode     Mode
	// links in listings are resolved against this
	Base *url.URL
	// maximum amount of detail pages fetched at the same time, defaults to 4
	Concurrency int
}

type Watcher struct {
	fetcher  Fetcher
	parser   dualis.Parser
	store    snapshotstore.Store
	notifier notify.Notifier
	time     chrono.TimeAPI
	tel      telemetry.API

	username    string
	password    string
	mode        Mode
	base        *url.URL
	concurrency int
}

func New(opts Options) Watcher {
	assert.NotNil(opts.Fetcher, "fetcher")
	assert.NotNil(opts.Store, "store")
	assert.NotNil(opts.Notifier, "notifier")
	assert.NotNil(opts.Time, "time")
	assert.NotNil(opts.Tel, "tel")
	assert.NotEmptyStr(opts.Username, "username")

	parser := opts.Parser
	if parser == (dualis.Parser{}) {
		parser = dualis.Default()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return Watcher{
		fetcher:     opts.Fetcher,
		parser:      parser,
		store:       opts.Store,
		notifier:    opts.Notifier,
		time:        opts.Time,
		tel:         telemetry.NewScopedAPI("watcher", opts.Tel),
		username:    opts.Username,
		password:    opts.Password,
		mode:        opts.Mode,
		base:        opts.Base,
		concurrency: concurrency,
	}
}

// Run is the outcome of one pass over the portal.
type Run struct {
	StartedAt   time.Time
	Records     []results.Record
	History     results.HistoryStatus
	Transitions []results.Transition
}

// Run logs in, extracts the current records, compares them against the
// stored snapshot and notifies about newly graded courses. The new
// snapshot is only saved once extraction and delivery both succeeded, so
// a failed run is retried in full next time.
func (w Watcher) Run(ctx context.Context) (Run, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	run := Run{StartedAt: w.time.Now()}

	records, err := w.Extract(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract records")
		return run, err
	}
	run.Records = records
	w.tel.ReportCount("records", int64(len(records)))

	history, err := results.LoadSnapshot(ctx, w.store)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load snapshot")
		return run, fmt.Errorf("load snapshot: %w", err)
	}
	run.History = history.Status

	switch history.Status {
	case results.HistoryFound:
		run.Transitions = results.Diff(history.Records, records)
	case results.HistoryCorrupt:
		w.tel.ReportWarning(report_snapshot_corrupt, history.Err)
	case results.HistoryNotFound:
		w.tel.ReportDebug("no previous snapshot, recording baseline")
	}
	span.SetAttributes(
		attribute.String("history", history.Status.String()),
		attribute.Int("transitions", len(run.Transitions)),
	)

	err = w.notifier.Notify(ctx, run.Transitions)
	if err != nil {
		w.tel.ReportBroken(report_notify, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to notify")
		return run, fmt.Errorf("notify: %w", err)
	}

	err = results.SaveSnapshot(ctx, w.store, records)
	if err != nil {
		w.tel.ReportBroken(report_save, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save snapshot")
		return run, fmt.Errorf("save snapshot: %w", err)
	}

	return run, nil
}

// Extract logs in and returns the de-duplicated records of the configured
// mode.
func (w Watcher) Extract(ctx context.Context) ([]results.Record, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	err := w.fetcher.Login(ctx, w.username, w.password)
	if err != nil {
		w.tel.ReportBroken(report_login, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return nil, fmt.Errorf("login: %w", err)
	}
	defer func() {
		err := w.fetcher.Logout(context.WithoutCancel(ctx))
		if err != nil {
			w.tel.ReportWarning(report_logout, err)
		}
	}()

	var records []results.Record
	switch w.mode {
	case ModeCourses:
		records, err = w.extractCourses(ctx)
	default:
		records, err = w.extractOverview(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract records")
		return nil, err
	}

	records = results.Dedupe(records)
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (w Watcher) extractOverview(ctx context.Context) ([]results.Record, error) {
	page, err := w.fetcher.Overview(ctx)
	if err != nil {
		w.tel.ReportBroken(report_fetch_overview, err)
		return nil, fmt.Errorf("fetch overview: %w", err)
	}
	return w.parser.ParseOverview(ctx, bytes.NewReader(page))
}

// detailLinks visits every semester listing and collects the detail links
// in visit order.
func (w Watcher) detailLinks(ctx context.Context) ([]string, error) {
	first, err := w.fetcher.SemesterListing(ctx, "")
	if err != nil {
		w.tel.ReportBroken(report_fetch_listing, err)
		return nil, fmt.Errorf("fetch semester listing: %w", err)
	}
	semesters, err := dualis.ParseSemesters(ctx, bytes.NewReader(first))
	if err != nil {
		return nil, err
	}

	listings := [][]byte{}
	if len(semesters) == 0 {
		listings = append(listings, first)
	}
	for _, semester := range semesters {
		if semester.Selected {
			listings = append(listings, first)
			continue
		}
		listing, err := w.fetcher.SemesterListing(ctx, semester.Value)
		if err != nil {
			w.tel.ReportBroken(report_fetch_listing, err, semester.Label)
			return nil, fmt.Errorf("fetch semester '%s': %w", semester.Label, err)
		}
		listings = append(listings, listing)
	}

	seen := map[string]struct{}{}
	var links []string
	for _, listing := range listings {
		found, err := dualis.ParseDetailLinks(ctx, bytes.NewReader(listing), w.base)
		if err != nil {
			return nil, err
		}
		for _, link := range found {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}
	return links, nil
}

func (w Watcher) extractCourses(ctx context.Context) ([]results.Record, error) {
	links, err := w.detailLinks(ctx)
	if err != nil {
		return nil, err
	}
	w.tel.ReportCount("detail-pages", int64(len(links)))

	parsed := make([][]results.Record, len(links))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(w.concurrency)
	for i, link := range links {
		p.Go(func(ctx context.Context) error {
			page, err := w.fetcher.Page(ctx, link)
			if err != nil {
				w.tel.ReportBroken(report_fetch_detail, err, link)
				return fmt.Errorf("fetch detail '%s': %w", link, err)
			}
			records, err := w.parser.ParseCourseDetail(ctx, bytes.NewReader(page))
			if err != nil {
				return fmt.Errorf("parse detail '%s': %w", link, err)
			}
			parsed[i] = records
			return nil
		})
	}
	err = p.Wait()
	if err != nil {
		return nil, err
	}

	var records []results.Record
	for _, page := range parsed {
		records = append(records, page...)
	}
	return records, nil
}

// IsMalformed reports whether a run failed because the portal returned
// markup that could not be understood.
func IsMalformed(err error) bool {
	return errors.Is(err, dualis.ErrMalformedPage)
}
