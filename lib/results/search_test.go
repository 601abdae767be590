package results

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	records := []Record{
		{ID: "T3INF1001.1", Name: "Lineare Algebra (MOS-TINF21B)"},
		{ID: "T3INF1002", Name: "Theoretische Informatik I"},
		{ID: "T3INF1003", Name: "Digitaltechnik"},
		{ID: "T3INF1004", Name: "Programmieren"},
	}

	matches := Search(records, "theoretische informatik", 2)
	require.Len(t, matches, 2)
	require.Equal(t, "T3INF1002", matches[0].Record.ID)
	require.GreaterOrEqual(t, matches[0].Similarity, 0.95)

	matches = Search(records, "t3inf1003", 1)
	require.Len(t, matches, 1)
	require.Equal(t, "T3INF1003", matches[0].Record.ID)
	require.Equal(t, 1.0, matches[0].Similarity)

	matches = Search(records, "Digitaltechnk", 0)
	require.Len(t, matches, len(records))
	require.Equal(t, "T3INF1003", matches[0].Record.ID)

	require.Empty(t, Search(records, "   ", 5))
}
