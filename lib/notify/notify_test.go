package notify

import (
	"context"
	"dualis-watch/lib/results"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]results.Transition
	err   error
}

func (r *recorder) Notify(ctx context.Context, transitions []results.Transition) error {
	if len(transitions) == 0 {
		return nil
	}
	r.calls = append(r.calls, transitions)
	return r.err
}

func transition(id, name string) results.Transition {
	return results.Transition{
		Previous: results.Record{ID: id, Name: name, Graded: false},
		Current:  results.Record{ID: id, Name: name, Graded: true},
	}
}

func TestMessage(t *testing.T) {
	require.Equal(
		t,
		"A new result is available on Dualis:\n- Theoretische Informatik I (T3INF1002)",
		Message([]results.Transition{transition("T3INF1002", "Theoretische Informatik I")}),
	)
	require.Equal(
		t,
		"2 new results are available on Dualis:\n- Digitaltechnik (T3INF1003)\n- Programmieren (T3INF1004)",
		Message([]results.Transition{
			transition("T3INF1003", "Digitaltechnik"),
			transition("T3INF1004", "Programmieren"),
		}),
	)
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	first := &recorder{err: errors.New("first failed")}
	second := &recorder{}
	multi := Multi{first, second}

	require.NoError(t, multi.Notify(ctx, nil))
	require.Empty(t, first.calls)

	err := multi.Notify(ctx, []results.Transition{transition("1", "Test")})
	require.ErrorIs(t, err, first.err)
	require.Len(t, first.calls, 1)
	require.Len(t, second.calls, 1)
}

func TestBuildEmptyConfig(t *testing.T) {
	multi, closer, err := Config{}.Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, multi)
	require.NoError(t, closer())
}
