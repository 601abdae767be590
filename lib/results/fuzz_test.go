package results

import (
	"errors"
	"testing"
)

func FuzzDecode(f *testing.F) {
	f.Add([]byte(`[{"id":"T3INF1001","name":"Mathematik I","graded":true}]`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(`[{"course_id":"A1234","course_name":"x","scored":false}]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		records, err := Decode(data)
		if err != nil {
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("decode error is not ErrCorruptSnapshot: %v", err)
			}
			return
		}

		// anything accepted must survive a round trip unchanged
		encoded, err := Encode(records)
		if err != nil {
			t.Fatal(err)
		}
		again, err := Decode(encoded)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(records) {
			t.Fatalf("round trip changed length %d -> %d", len(records), len(again))
		}
		for i := range records {
			if records[i] != again[i] {
				t.Fatalf("round trip changed record %d: %+v -> %+v", i, records[i], again[i])
			}
		}
	})
}
