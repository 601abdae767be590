package notify

import (
	"context"
	"dualis-watch/lib/results"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dualis-watch/notify")

// Notifier delivers newly graded courses somewhere a person will see them.
// Implementations must treat an empty list as a no-op.
type Notifier interface {
	Notify(ctx context.Context, transitions []results.Transition) error
}

// Multi delivers to every notifier, a failing notifier does not stop the
// others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, transitions []results.Transition) error {
	if len(transitions) == 0 {
		return nil
	}
	var errs []error
	for _, n := range m {
		err := n.Notify(ctx, transitions)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Message renders a short human readable summary.
func Message(transitions []results.Transition) string {
	var out strings.Builder
	if len(transitions) == 1 {
		out.WriteString("A new result is available on Dualis:")
	} else {
		fmt.Fprintf(&out, "%d new results are available on Dualis:", len(transitions))
	}
	for _, t := range transitions {
		fmt.Fprintf(&out, "\n- %s (%s)", t.Name(), t.ID())
	}
	return out.String()
}

type course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func courses(transitions []results.Transition) []course {
	out := make([]course, len(transitions))
	for i, t := range transitions {
		out[i] = course{ID: t.ID(), Name: t.Name()}
	}
	return out
}
