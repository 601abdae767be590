package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	ErrInvalidText     = errors.New("record text is not valid utf-8")
)

// Encode serializes records as a JSON array of {"id", "name", "graded"}.
// Records with invalid UTF-8 are rejected, they would not decode to the
// same value.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	for i, r := range records {
		if !utf8.ValidString(r.ID) || !utf8.ValidString(r.Name) {
			return nil, fmt.Errorf("%w: record %d (%q)", ErrInvalidText, i, r.ID)
		}
	}
	return json.Marshal(records)
}

type storedRecord struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Graded *bool   `json:"graded"`

	// snapshots written by the first release of the watcher
	LegacyID     *string `json:"course_id"`
	LegacyName   *string `json:"course_name"`
	LegacyGraded *bool   `json:"scored"`
}

func (s *storedRecord) upgrade() {
	if s.ID == nil {
		s.ID = s.LegacyID
	}
	if s.Name == nil {
		s.Name = s.LegacyName
	}
	if s.Graded == nil {
		s.Graded = s.LegacyGraded
	}
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// Decode is the inverse of Encode. Anything that does not describe a valid
// record set fails with ErrCorruptSnapshot.
func Decode(data []byte) ([]Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	var stored []storedRecord
	err := decoder.Decode(&stored)
	if err != nil {
		return nil, corrupt("%s", err.Error())
	}
	if stored == nil {
		return nil, corrupt("expected an array of records")
	}
	_, err = decoder.Token()
	if err != io.EOF {
		return nil, corrupt("unexpected trailing data")
	}

	records := make([]Record, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, s := range stored {
		s.upgrade()
		if s.ID == nil || s.Name == nil || s.Graded == nil {
			return nil, corrupt("record %d is missing a field", i)
		}
		if *s.ID == "" {
			return nil, corrupt("record %d has an empty id", i)
		}
		if _, ok := seen[*s.ID]; ok {
			return nil, corrupt("record %d repeats id '%s'", i, *s.ID)
		}
		seen[*s.ID] = struct{}{}

		records[i] = Record{
			ID:     *s.ID,
			Name:   *s.Name,
			Graded: *s.Graded,
		}
	}
	return records, nil
}
