package dualis

import (
	"bytes"
	"context"
	"dualis-watch/lib/results"
	"errors"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/overview.html
var overviewPage []byte

//go:embed testdata/detail_simple.html
var detailSimplePage []byte

//go:embed testdata/detail_grouped.html
var detailGroupedPage []byte

//go:embed testdata/listing.html
var listingPage []byte

func overviewRow(status string) string {
	return `<table><tbody><tr>
		<td class="tbdata">T3INF1002</td>
		<td class="tbdata">Theoretische
Informatik I</td>
		<td class="tbdata">5,0</td>
		<td class="tbdata">1,3</td>
		<td class="tbdata"></td>
		<td class="tbdata">` + status + `</td>
	</tr></tbody></table>`
}

func TestOverviewRowGraded(t *testing.T) {
	records, err := ParseOverview(context.Background(), strings.NewReader(overviewRow(`<img src="pass.gif" title="bestanden">`)))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: true},
	}, records)
}

func TestOverviewRowWithoutTitle(t *testing.T) {
	records, err := ParseOverview(context.Background(), strings.NewReader(overviewRow(`<img src="pass.gif">`)))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: false},
	}, records)
}

func TestParseOverview(t *testing.T) {
	ctx := context.Background()

	records, err := ParseOverview(ctx, bytes.NewReader(overviewPage))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: true},
		{ID: "T3INF1003", Name: "Digitaltechnik", Graded: false},
		{ID: "T3INF1004", Name: "Programmieren", Graded: false},
		{ID: "T3INF1005", Name: "Schlüsselqualifikationen", Graded: false},
		{ID: "T3INF1002", Name: "Theoretische Informatik I (Wiederholung)", Graded: false},
	}, records)

	for _, r := range records {
		require.NotEmpty(t, r.ID)
		require.NotContains(t, r.Name, "<!--")
		require.NotContains(t, r.Name, "-->")
		require.NotContains(t, r.Name, "\n")
	}

	again, err := ParseOverview(ctx, bytes.NewReader(overviewPage))
	require.NoError(t, err)
	require.Equal(t, records, again)

	require.Equal(t, []results.Record{
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: true},
		{ID: "T3INF1003", Name: "Digitaltechnik", Graded: false},
		{ID: "T3INF1004", Name: "Programmieren", Graded: false},
		{ID: "T3INF1005", Name: "Schlüsselqualifikationen", Graded: false},
	}, results.Dedupe(records))
}

func TestParseOverviewCommentResidue(t *testing.T) {
	page := `<table><tbody>
		<tr>
			<td class="tbdata">T3INF1010</td>
			<td class="tbdata">Foo<script><!-- x();</script></td>
			<td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td>
		</tr>
		<tr>
			<td class="tbdata">T3INF1011</td>
			<td class="tbdata">A<script>--> b <!-- c --></script></td>
			<td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td>
		</tr>
		<tr>
			<td class="tbdata">T3INF1012</td>
			<td class="tbdata">Bar<script>--></script></td>
			<td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td>
		</tr>
	</tbody></table>`

	records, err := ParseOverview(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1010", Name: "Foo", Graded: false},
		{ID: "T3INF1011", Name: "A b", Graded: false},
		{ID: "T3INF1012", Name: "Bar", Graded: false},
	}, records)

	for _, r := range records {
		require.NotEmpty(t, r.ID)
		require.NotContains(t, r.Name, "<!--")
		require.NotContains(t, r.Name, "-->")
		require.NotContains(t, r.Name, "\n")
	}
}

func TestParseOverviewLatin1(t *testing.T) {
	page := "<table><tbody><tr>" +
		`<td class="tbdata">T3INF1002</td>` +
		"<td class=\"tbdata\">Pr\xfcfung</td>" +
		`<td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td>` +
		`<td class="tbdata"><img title="bestanden"></td>` +
		"</tr></tbody></table>"
	require.False(t, utf8.ValidString(page))

	records, err := ParseOverview(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, []results.Record{{ID: "T3INF1002", Name: "Prüfung", Graded: true}}, records)
	require.True(t, utf8.ValidString(records[0].Name))

	data, err := results.Encode(records)
	require.NoError(t, err)
	decoded, err := results.Decode(data)
	require.NoError(t, err)
	require.Equal(t, records, decoded)
}

func TestParseOverviewHeaderCell(t *testing.T) {
	row := func(first string) string {
		return `<tr>` + first + `<td class="tbdata">Course</td>
			<td class="tbdata"></td><td class="tbdata"></td><td class="tbdata"></td>
			<td class="tbdata"><img title="bestanden"></td></tr>`
	}
	page := `<table><tbody>` +
		row(`<th>T3INF1020</th>`) +
		row(`<th class="tbdata">T3INF1021</th>`) +
		row(`<td class="tbdata">T3INF1022</td>`) +
		`</tbody></table>`

	records, err := ParseOverview(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1021", Name: "Course", Graded: true},
		{ID: "T3INF1022", Name: "Course", Graded: true},
	}, records)
}

func TestParseOverviewNoTable(t *testing.T) {
	records, err := ParseOverview(context.Background(), strings.NewReader("<html><body><p>Wartungsarbeiten</p></body></html>"))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseCourseDetailSimple(t *testing.T) {
	records, err := ParseCourseDetail(context.Background(), bytes.NewReader(detailSimplePage))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1002", Name: "Theoretische Informatik I (WiSe 2021/22)", Graded: true},
	}, records)
}

func TestParseCourseDetailGrouped(t *testing.T) {
	records, err := ParseCourseDetail(context.Background(), bytes.NewReader(detailGroupedPage))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra (MOS-TINF21B)", Graded: false},
		{ID: "T3INF1001.2", Name: "Analysis (MOS-TINF21B)", Graded: false},
		{ID: "T3INF1001.2", Name: "Analysis (MOS-TINF21B)", Graded: true},
		{ID: "T3INF1001", Name: "Mathematik I", Graded: true},
		{ID: "T3INF1001", Name: "Mathematik I", Graded: true},
	}, records)

	require.Equal(t, []results.Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra (MOS-TINF21B)", Graded: false},
		{ID: "T3INF1001.2", Name: "Analysis (MOS-TINF21B)", Graded: false},
		{ID: "T3INF1001", Name: "Mathematik I", Graded: true},
	}, results.Dedupe(records))
}

func TestParseCourseDetailSubCourseRow(t *testing.T) {
	page := `<h1>Mathematik I T3INF1001</h1><table>
		<tr><td class="level02">T3INF1001.1 Lineare Algebra (MOS-TINF21B)</td></tr>
		<tr>
			<td class="tbdata">WiSe</td><td class="tbdata">Klausur</td><td class="tbdata"></td>
			<td class="tbdata"> </td><td class="tbdata"></td><td class="tbdata"></td>
		</tr>
	</table>`

	records, err := ParseCourseDetail(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, []results.Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra (MOS-TINF21B)", Graded: false},
	}, records)
}

func TestParseCourseDetailMalformed(t *testing.T) {
	cases := []struct {
		name string
		page string
	}{
		{name: "no heading", page: `<html><body><table><tr><td class="tbdata">x</td></tr></table></body></html>`},
		{name: "no course code", page: `<html><body><h1>Fehler</h1></body></html>`},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			records, err := ParseCourseDetail(context.Background(), strings.NewReader(test.page))
			require.True(t, errors.Is(err, ErrMalformedPage), "expected malformed page, got %v", err)
			require.Nil(t, records)
		})
	}
}

func TestCustomLayout(t *testing.T) {
	layout := DefaultLayout
	layout.OverviewStatus = 3
	layout.UngradedStatus = "pending"
	parser, err := NewParser(layout)
	require.NoError(t, err)

	page := `<table><tbody><tr>
		<td class="tbdata">X1234</td><td class="tbdata">Course</td><td class="tbdata"></td>
		<td class="tbdata"><img title="PENDING"></td><td class="tbdata"></td><td class="tbdata"><img title="bestanden"></td>
	</tr></tbody></table>`
	records, err := parser.ParseOverview(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, []results.Record{{ID: "X1234", Name: "Course", Graded: false}}, records)

	layout.DetailPoints = 6
	_, err = NewParser(layout)
	require.Error(t, err)

	layout = DefaultLayout
	layout.CoursePattern = "(["
	_, err = NewParser(layout)
	require.Error(t, err)
}

func TestParseSemesters(t *testing.T) {
	semesters, err := ParseSemesters(context.Background(), bytes.NewReader(listingPage))
	require.NoError(t, err)
	require.Equal(t, []Semester{
		{Value: "000000015098000", Label: "SoSe 2022"},
		{Value: "000000015088000", Label: "WiSe 2021/22", Selected: true},
	}, semesters)
}

func TestParseDetailLinks(t *testing.T) {
	base, err := url.Parse("https://dualis.dhbw.de/scripts/mgrqispi.dll")
	require.NoError(t, err)

	links, err := ParseDetailLinks(context.Background(), bytes.NewReader(listingPage), base)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://dualis.dhbw.de/scripts/mgrqispi.dll?APPNAME=CampusNet&PRGNAME=RESULTDETAILS&ARGUMENTS=-N123,-N000307,-N383745",
		"https://dualis.dhbw.de/scripts/mgrqispi.dll?APPNAME=CampusNet&PRGNAME=RESULTDETAILS&ARGUMENTS=-N123,-N000307,-N383746",
	}, links)
}
