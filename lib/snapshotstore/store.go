package snapshotstore

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dualis-watch/snapshotstore")

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Store persists the latest serialized snapshot. Implementations only deal
// in bytes, the encoding belongs to the caller.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Memory keeps the snapshot in process, it is used for dry runs and tests.
type Memory struct {
	mutex sync.Mutex
	data  []byte
	saved bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.saved {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data = append([]byte(nil), data...)
	m.saved = true
	return nil
}
