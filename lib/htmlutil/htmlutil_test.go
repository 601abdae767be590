package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDocument(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestTrimmedText(t *testing.T) {
	cases := []struct {
		markup string
		expect string
	}{
		{markup: "<td id=\"c\">\n\t\tTheoretische\nInformatik I <span> </span></td>", expect: "Theoretische\nInformatik I"},
		{markup: "<td id=\"c\"> T3INF<b>1002</b>\n</td>", expect: "T3INF1002"},
		{markup: "<td id=\"c\">Foo <br/> Bar</td>", expect: "FooBar"},
		{markup: "<td id=\"c\"> </td>", expect: ""},
	}

	for _, test := range cases {
		doc := mustDocument(t, "<table><tr>"+test.markup+"</tr></table>")
		require.Equal(t, test.expect, TrimmedText(doc.Find("#c")))
	}

	doc := mustDocument(t, `<table><tr><td id="c">
		Theoretische
		<br/>  Informatik I</td></tr></table>`)
	require.Contains(t, GetText(doc.Find("#c").Get(0)), "\n")
}

func TestClassContains(t *testing.T) {
	doc := mustDocument(t, `<div id="a" class="tbsubhead x"></div><div id="b"></div>`)

	require.True(t, ClassContains(doc.Find("#a"), "subhead"))
	require.False(t, ClassContains(doc.Find("#a"), "level00"))
	require.False(t, ClassContains(doc.Find("#a"), ""))
	require.False(t, ClassContains(doc.Find("#b"), "subhead"))
}

func TestGetAnchors(t *testing.T) {
	doc := mustDocument(t, `
		<a href="/scripts/mgrqispi.dll?PRGNAME=RESULTDETAILS&amp;ARGUMENTS=-N1"> Ergebnis
		 anzeigen </a>
		<a>no href</a>
		<a href="https://example.com/x">X</a>`)

	base, err := url.Parse("https://dualis.dhbw.de/scripts/mgrqispi.dll")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"), base)
	require.Equal(t, []Anchor{
		{Name: "Ergebnis anzeigen", Href: "https://dualis.dhbw.de/scripts/mgrqispi.dll?PRGNAME=RESULTDETAILS&ARGUMENTS=-N1"},
		{Name: "X", Href: "https://example.com/x"},
	}, anchors)
}
