package results

// Record is one course's extracted result state. Two records with the
// same ID describe the same course, names may differ between pages.
type Record struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Graded bool   `json:"graded"`
}

// Dedupe keeps the first record seen for every id, preserving order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	unique := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

type Stats struct {
	Total  int
	Graded int
}

func Summary(records []Record) Stats {
	stats := Stats{Total: len(records)}
	for _, r := range records {
		if r.Graded {
			stats.Graded++
		}
	}
	return stats
}
