package kvstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLite_GetMissingReturnsNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLite_SetGetOverwrite(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v1")))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, r.Set(ctx, "k", []byte("v2")))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), v)
}

func TestSQLite_SetManyWritesAllKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	err := r.SetMany(ctx, map[string][]byte{
		"credential": []byte("tok"),
		"profile":    []byte(`{"id":"1"}`),
	})
	require.NoError(t, err)

	v, err := r.Get(ctx, "credential")
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), v)

	v, err = r.Get(ctx, "profile")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":"1"}`), v)
}

func TestSQLite_DeleteManyAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Set(ctx, "c", []byte("3")))

	require.NoError(t, r.DeleteMany(ctx, "a", "b"))
	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	v, err = r.Get(ctx, "c")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := InitDatabase(context.Background(), dir+"/store.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))
}
