package results

import (
	"context"
	"dualis-watch/lib/snapshotstore"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dualis-watch/results")

type HistoryStatus int

const (
	HistoryNotFound HistoryStatus = iota
	HistoryCorrupt
	HistoryFound
)

func (s HistoryStatus) String() string {
	switch s {
	case HistoryNotFound:
		return "not-found"
	case HistoryCorrupt:
		return "corrupt"
	case HistoryFound:
		return "found"
	}
	return fmt.Sprintf("HistoryStatus(%d)", int(s))
}

// History is the outcome of loading the previous snapshot. Records is only
// meaningful when Status is HistoryFound, Err is set when Status is
// HistoryCorrupt.
type History struct {
	Status  HistoryStatus
	Records []Record
	Err     error
}

// LoadSnapshot reads and decodes the previous record set. A failure of the
// store itself (as opposed to absent or undecodable data) is returned as an
// error.
func LoadSnapshot(ctx context.Context, store snapshotstore.Store) (History, error) {
	ctx, span := tracer.Start(ctx, "LoadSnapshot")
	defer span.End()

	data, err := store.Load(ctx)
	if errors.Is(err, snapshotstore.ErrNotFound) {
		span.SetAttributes(attribute.String("history", HistoryNotFound.String()))
		return History{Status: HistoryNotFound}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load snapshot")
		return History{}, err
	}

	records, err := Decode(data)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("history", HistoryCorrupt.String()))
		return History{Status: HistoryCorrupt, Err: err}, nil
	}

	span.SetAttributes(
		attribute.String("history", HistoryFound.String()),
		attribute.Int("records", len(records)),
	)
	return History{Status: HistoryFound, Records: records}, nil
}

func SaveSnapshot(ctx context.Context, store snapshotstore.Store, records []Record) error {
	ctx, span := tracer.Start(ctx, "SaveSnapshot")
	defer span.End()

	data, err := Encode(records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode snapshot")
		return err
	}
	err = store.Save(ctx, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save snapshot")
		return err
	}
	return nil
}
