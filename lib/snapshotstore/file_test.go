package snapshotstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	for _, name := range []string{"results.json", "results.json.br"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", name)
			store := NewFileStore(path)

			_, err := store.Load(ctx)
			require.ErrorIs(t, err, ErrNotFound)

			first := []byte(`[{"id":"T3INF1002","name":"Theoretische Informatik I","graded":false}]`)
			require.NoError(t, store.Save(ctx, first))
			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			require.Equal(t, first, loaded)

			second := []byte(`[]`)
			require.NoError(t, store.Save(ctx, second))
			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			require.Equal(t, second, loaded)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			require.Len(t, entries, 1, "temporary files must not be left behind")
		})
	}
}

func TestFileStoreCompresses(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.json.br")
	store := NewFileStore(path)

	data := []byte(`[{"id":"1","name":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa","graded":true}]`)
	require.NoError(t, store.Save(ctx, data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, data, raw)
	require.Less(t, len(raw), len(data))
}

func TestFileStoreUnreadableBrotli(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.json.br")
	require.NoError(t, os.WriteFile(path, []byte("definitely not brotli"), 0644))

	_, err := NewFileStore(path).Load(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
