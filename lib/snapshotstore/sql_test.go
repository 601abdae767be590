package snapshotstore

import (
	"context"
	"database/sql"
	"dualis-watch/lib/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openMemoryDB(t testing.TB) *sql.DB {
	res, cleanup := testutil.Setup(t, testutil.Params{
		Name:     "snapshotstore",
		DbSchema: sqliteSchema,
	})
	t.Cleanup(cleanup)
	return res.DB
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLStore(ctx, openMemoryDB(t), DialectSQLite, 0)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	for _, data := range []string{`[]`, `[{"id":"1","name":"a","graded":false}]`, `[{"id":"1","name":"a","graded":true}]`} {
		require.NoError(t, store.Save(ctx, []byte(data)))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, data, string(loaded))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestSQLStoreRetain(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	store, err := NewSQLStore(ctx, db, DialectSQLite, 2)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	for _, data := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Save(ctx, []byte(data)))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "d", string(loaded))

	// creating the store again must not clear existing snapshots
	reopened, err := NewSQLStore(ctx, db, DialectSQLite, 2)
	require.NoError(t, err)
	loaded, err = reopened.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "d", string(loaded))
}

func TestDialectPlaceholders(t *testing.T) {
	require.Equal(t, "?", DialectSQLite.placeholder(2))
	require.Equal(t, "$2", DialectPostgres.placeholder(2))
	require.Contains(t, DialectPostgres.schema(), "bytea")
	require.Contains(t, DialectSQLite.schema(), "blob")
}
