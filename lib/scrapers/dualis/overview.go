package dualis

import (
	"context"
	"dualis-watch/lib/htmlutil"
	"dualis-watch/lib/results"
	"dualis-watch/lib/textutil"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ParseOverview extracts records from the flat result table, one record
// per data row. The same course may appear more than once.
func (p Parser) ParseOverview(ctx context.Context, r io.Reader) ([]results.Record, error) {
	_, span := tracer.Start(ctx, "ParseOverview")
	defer span.End()

	doc, err := newDocument(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var records []results.Record
	skipped := 0
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if p.isHeaderRow(row) {
			return
		}
		cells, ok := p.dataCells(row)
		if !ok {
			skipped++
			return
		}

		id := strings.TrimSpace(cells.Eq(p.layout.OverviewID).Text())
		if id == "" {
			skipped++
			return
		}
		records = append(records, results.Record{
			ID:     id,
			Name:   textutil.CleanName(htmlutil.TrimmedText(cells.Eq(p.layout.OverviewName))),
			Graded: p.statusGraded(cells.Eq(p.layout.OverviewStatus)),
		})
	})

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("skipped_rows", skipped),
	)
	return records, nil
}

// statusGraded reads the status icon, a missing icon or attribute means
// the course is not graded.
func (p Parser) statusGraded(cell *goquery.Selection) bool {
	status, ok := cell.Find("img").First().Attr(p.layout.StatusAttr)
	if !ok {
		return false
	}
	status = strings.TrimSpace(status)
	return status != "" && !strings.EqualFold(status, p.layout.UngradedStatus)
}

// ParseOverview uses DefaultLayout.
func ParseOverview(ctx context.Context, r io.Reader) ([]results.Record, error) {
	return defaultParser.ParseOverview(ctx, r)
}
