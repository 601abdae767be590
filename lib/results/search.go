package results

import (
	"dualis-watch/lib/textutil"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

type Match struct {
	Record     Record
	Similarity float64
}

// Search ranks records by how closely their name (or id) resembles query.
// An exact id match always ranks first.
func Search(records []Record, query string, limit int) []Match {
	normalizedQuery := textutil.NormalizeName(query)
	if normalizedQuery == "" {
		return nil
	}

	matches := make([]Match, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(r.ID, strings.TrimSpace(query)) {
			matches = append(matches, Match{Record: r, Similarity: 1})
			continue
		}

		name := textutil.NormalizeName(r.Name)
		similarity := matchr.JaroWinkler(normalizedQuery, name, false)
		if strings.Contains(name, normalizedQuery) && similarity < 0.95 {
			similarity = 0.95
		}
		idSimilarity := matchr.JaroWinkler(normalizedQuery, strings.ToLower(r.ID), false)
		if idSimilarity > similarity {
			similarity = idSimilarity
		}
		matches = append(matches, Match{Record: r, Similarity: similarity})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
