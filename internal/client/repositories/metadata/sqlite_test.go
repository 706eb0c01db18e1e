package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetGet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session.token", []byte("old")))
	require.NoError(t, r.Set(ctx, "session.token", []byte("new")))

	v, err := r.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{1}))
	require.NoError(t, r.Delete(ctx, "x"))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDeletePrefix_OnlyMatchingKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session.token", []byte{1}))
	require.NoError(t, r.Set(ctx, "session.user", []byte{2}))
	require.NoError(t, r.Set(ctx, "sessionXother", []byte{3}))
	require.NoError(t, r.Set(ctx, "install.salt", []byte{4}))

	require.NoError(t, r.DeletePrefix(ctx, "session."))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"install.salt", "sessionXother"}, keys)
}

func TestDeletePrefix_EscapesWildcards(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a_b", []byte{1}))
	require.NoError(t, r.Set(ctx, "axb", []byte{2}))

	require.NoError(t, r.DeletePrefix(ctx, "a_"))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"axb"}, keys)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k]")

	err = r.DeletePrefix(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k*]")

	_, err = r.Keys(ctx)
	require.ErrorContains(t, err, "failed to list metadata")
}
