package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	require.Equal(t, "Europe/Berlin", Now().Location().String())
}

func TestStamp(t *testing.T) {
	cases := []struct {
		in     time.Time
		expect string
	}{
		{
			in:     time.Date(2024, time.January, 15, 11, 30, 0, 0, time.UTC),
			expect: "15.01.2024 12:30",
		},
		{
			in:     time.Date(2024, time.July, 1, 22, 5, 0, 0, time.UTC),
			expect: "02.07.2024 00:05",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, Stamp(test.in))
	}
}
