package results

// Transition is a course that went from ungraded to graded between two
// snapshots.
type Transition struct {
	Previous Record
	Current  Record
}

func (t Transition) ID() string {
	return t.Current.ID
}

func (t Transition) Name() string {
	return t.Current.Name
}

// Diff reports every record of current that was ungraded in previous and is
// graded now, in the order of current. Courses missing from previous never
// produce a transition.
func Diff(previous, current []Record) []Transition {
	index := make(map[string]Record, len(previous))
	for _, r := range previous {
		if _, ok := index[r.ID]; ok {
			continue
		}
		index[r.ID] = r
	}

	var changed []Transition
	for _, r := range current {
		old, ok := index[r.ID]
		if !ok {
			continue
		}
		if r.Graded && !old.Graded {
			changed = append(changed, Transition{Previous: old, Current: r})
		}
	}
	return changed
}
