package dualis

import (
	"bytes"
	"dualis-watch/lib/htmlutil"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/html/charset"
)

var tracer = otel.Tracer("dualis-watch/scrapers/dualis")

// ErrMalformedPage is returned when a page lacks an element extraction
// cannot do without. Rows that merely look odd are skipped instead.
var ErrMalformedPage = errors.New("malformed page")

// Parser turns result portal pages into records. It holds no state between
// calls and is safe for concurrent use.
type Parser struct {
	layout  Layout
	pattern *regexp.Regexp
}

func NewParser(layout Layout) (Parser, error) {
	err := layout.Validate()
	if err != nil {
		return Parser{}, err
	}
	return Parser{
		layout:  layout,
		pattern: regexp.MustCompile(layout.CoursePattern),
	}, nil
}

var defaultParser, _ = NewParser(DefaultLayout)

// newDocument parses a page as UTF-8. A page that is not valid UTF-8 is
// decoded with its declared charset, windows-1252 when it declares none.
func newDocument(r io.Reader) (*goquery.Document, error) {
	page, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(page) {
		encoding, _, _ := charset.DetermineEncoding(page, "")
		page, err = encoding.NewDecoder().Bytes(page)
		if err != nil {
			return nil, err
		}
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(page))
}

// Default returns the parser for DefaultLayout.
func Default() Parser {
	return defaultParser
}

func (p Parser) Layout() Layout {
	return p.layout
}

// isHeaderRow reports rows that only carry headings.
func (p Parser) isHeaderRow(row *goquery.Selection) bool {
	return htmlutil.ClassContains(row, p.layout.SubheadingMarker) ||
		htmlutil.ClassContains(row, p.layout.TopLevelMarker)
}

// dataCells returns the cells of a row if it is a well formed data row.
// Header cells count as cells and must carry the marker too.
func (p Parser) dataCells(row *goquery.Selection) (*goquery.Selection, bool) {
	cells := row.ChildrenFiltered("td, th")
	if cells.Length() < p.layout.MinCells {
		return nil, false
	}
	valid := true
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		valid = cell.HasClass(p.layout.DataCellClass)
		return valid
	})
	return cells, valid
}

// splitCourse separates the first course code in text from the rest of it.
// The code is empty when text contains none.
func (p Parser) splitCourse(text string) (code, name string) {
	loc := p.pattern.FindStringIndex(text)
	if loc == nil {
		return "", strings.TrimSpace(text)
	}
	code = text[loc[0]:loc[1]]
	name = strings.Join(strings.Fields(text[:loc[0]]+text[loc[1]:]), " ")
	return code, name
}
