package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("dualis-watch/htmlutil")

// Fragments returns the text nodes under the given node in document order.
func Fragments(node *html.Node) []string {
	var out []string
	collectFragments(node, &out)
	return out
}

func collectFragments(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*out = append(*out, node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectFragments(child, out)
	}
}

// GetText concatenates all text under the node.
func GetText(node *html.Node) string {
	return strings.Join(Fragments(node), "")
}

// TrimmedText trims every text fragment of the selection and concatenates
// them. Whitespace inside a fragment is kept.
func TrimmedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		for _, frag := range Fragments(n) {
			b.WriteString(strings.TrimSpace(frag))
		}
	}
	return b.String()
}

// ClassContains reports whether the class attribute of the selection
// contains the marker as a substring.
func ClassContains(sel *goquery.Selection, marker string) bool {
	if marker == "" {
		return false
	}
	class, ok := sel.Attr("class")
	return ok && strings.Contains(class, marker)
}

type Anchor struct {
	Name string
	Href string
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// GetAnchors reads the href and display text of every anchor in the
// selection, resolving relative links against base when base is non-nil.
func GetAnchors(ctx context.Context, sel *goquery.Selection, base *url.URL) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		name := strings.Join(strings.Fields(removeNonPrintable(GetText(a.Get(0)))), " ")
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	})

	return anchors
}
