package dualis

import (
	"context"
	"dualis-watch/lib/htmlutil"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Semester struct {
	// value of the option, used as the last argument of the listing url
	Value    string
	Label    string
	Selected bool
}

// ParseSemesters reads the semester selector of the course result listing.
func ParseSemesters(ctx context.Context, r io.Reader) ([]Semester, error) {
	_, span := tracer.Start(ctx, "ParseSemesters")
	defer span.End()

	doc, err := newDocument(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var semesters []Semester
	doc.Find("select#semester option").Each(func(_ int, option *goquery.Selection) {
		value := strings.TrimSpace(option.AttrOr("value", ""))
		if value == "" {
			return
		}
		_, selected := option.Attr("selected")
		semesters = append(semesters, Semester{
			Value:    value,
			Label:    strings.Join(strings.Fields(option.Text()), " "),
			Selected: selected,
		})
	})

	span.SetAttributes(attribute.Int("semesters", len(semesters)))
	return semesters, nil
}

const detailProgram = "PRGNAME=RESULTDETAILS"

// ParseDetailLinks collects the course detail links of a semester listing
// in page order, without duplicates. Relative links are resolved against
// base.
func ParseDetailLinks(ctx context.Context, r io.Reader, base *url.URL) ([]string, error) {
	ctx, span := tracer.Start(ctx, "ParseDetailLinks")
	defer span.End()

	doc, err := newDocument(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	seen := map[string]struct{}{}
	var links []string
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a[href]"), base) {
		if !strings.Contains(anchor.Href, detailProgram) {
			continue
		}
		if _, ok := seen[anchor.Href]; ok {
			continue
		}
		seen[anchor.Href] = struct{}{}
		links = append(links, anchor.Href)
	}

	span.SetAttributes(attribute.Int("links", len(links)))
	return links, nil
}
