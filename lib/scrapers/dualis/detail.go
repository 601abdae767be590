package dualis

import (
	"context"
	"dualis-watch/lib/htmlutil"
	"dualis-watch/lib/results"
	"dualis-watch/lib/textutil"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type course struct {
	id   string
	name string
}

// ParseCourseDetail extracts records from a course detail page. Rows
// following a grouping row belong to that sub-course until the next
// grouping row or the end of the table.
func (p Parser) ParseCourseDetail(ctx context.Context, r io.Reader) ([]results.Record, error) {
	_, span := tracer.Start(ctx, "ParseCourseDetail")
	defer span.End()

	doc, err := newDocument(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		err := fmt.Errorf("%w: course detail page has no heading", ErrMalformedPage)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing heading")
		return nil, err
	}
	headingText := textutil.CleanName(htmlutil.TrimmedText(heading))
	mainID, mainName := p.splitCourse(headingText)
	if mainID == "" {
		err := fmt.Errorf("%w: no course code in heading '%s'", ErrMalformedPage, headingText)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing course code")
		return nil, err
	}
	main := course{id: mainID, name: mainName}
	span.SetAttributes(attribute.String("course", main.id))

	var records []results.Record
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		records = p.foldTable(table, main, records)
	})

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

// foldTable walks the rows of a single table, the sub-course context starts
// out empty for every table.
func (p Parser) foldTable(table *goquery.Selection, main course, records []results.Record) []results.Record {
	var sub course
	rows := table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr")

	rows.Each(func(_ int, row *goquery.Selection) {
		if p.isHeaderRow(row) {
			return
		}

		cells := row.ChildrenFiltered("td")
		if cells.Length() == 1 && cells.HasClass(p.layout.GroupHeaderClass) {
			sub.id, sub.name = p.splitCourse(textutil.CleanName(htmlutil.TrimmedText(cells)))
			return
		}

		cells, ok := p.dataCells(row)
		if !ok {
			return
		}
		records = append(records, results.Record{
			ID:     p.resolveID(main, sub),
			Name:   p.resolveName(main, sub),
			Graded: p.pointsGraded(cells.Eq(p.layout.DetailPoints)),
		})
	})
	return records
}

func (p Parser) resolveID(main, sub course) string {
	if sub.id != "" {
		return sub.id
	}
	return main.id
}

// resolveName attributes the final exam row and rows outside any grouping
// to the parent course.
func (p Parser) resolveName(main, sub course) string {
	if sub.name == "" || sub.name == p.layout.FinalExamLabel {
		return main.name
	}
	return sub.name
}

func (p Parser) pointsGraded(cell *goquery.Selection) bool {
	points := strings.TrimSpace(cell.Text())
	if points == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(points), strings.ToLower(p.layout.NotYetMarker))
}

// ParseCourseDetail uses DefaultLayout.
func ParseCourseDetail(ctx context.Context, r io.Reader) ([]results.Record, error) {
	return defaultParser.ParseCourseDetail(ctx, r)
}
