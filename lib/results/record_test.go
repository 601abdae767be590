package results

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	records := []Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra", Graded: false},
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: true},
		{ID: "T3INF1001.1", Name: "Lineare Algebra (MOS-TINF21B)", Graded: true},
		{ID: "T3INF1003", Name: "Digitaltechnik", Graded: false},
		{ID: "T3INF1002", Name: "Theoretische Informatik", Graded: false},
	}

	require.Equal(t, []Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra", Graded: false},
		{ID: "T3INF1002", Name: "Theoretische Informatik I", Graded: true},
		{ID: "T3INF1003", Name: "Digitaltechnik", Graded: false},
	}, Dedupe(records))

	require.Empty(t, Dedupe(nil))
}

func TestDedupeKeepsFirstRegardlessOfSize(t *testing.T) {
	var records []Record
	records = append(records, Record{ID: "X", Name: "first", Graded: false})
	for i := 0; i < 5000; i++ {
		records = append(records, Record{ID: "X", Name: "later", Graded: i%2 == 0})
	}

	deduped := Dedupe(records)
	require.Len(t, deduped, 1)
	require.Equal(t, Record{ID: "X", Name: "first", Graded: false}, deduped[0])
}

func TestSummary(t *testing.T) {
	require.Equal(t, Stats{Total: 3, Graded: 2}, Summary([]Record{
		{ID: "1", Graded: true},
		{ID: "2", Graded: false},
		{ID: "3", Graded: true},
	}))
	require.Equal(t, Stats{}, Summary(nil))
}
