package drafts

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/common"
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
CREATE TABLE drafts (
  kind         TEXT    NOT NULL,
  prototype_id INTEGER NOT NULL DEFAULT 0,
  payload      BLOB    NOT NULL,
  updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (kind, prototype_id)
);`)
	require.NoError(t, err)
	return db
}

func TestSaveAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Draft{Kind: "review", PrototypeID: 3, Payload: []byte(`{"feedback":"a"}`)}))

	d, err := r.Get(ctx, "review", 3)
	require.NoError(t, err)
	assert.Equal(t, "review", d.Kind)
	assert.Equal(t, int64(3), d.PrototypeID)
	assert.JSONEq(t, `{"feedback":"a"}`, string(d.Payload))
	assert.False(t, d.UpdatedAt.IsZero())
}

func TestSave_UpsertOverwritesPayload(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Draft{Kind: "submit", Payload: []byte("old")}))
	require.NoError(t, r.Save(ctx, &models.Draft{Kind: "submit", Payload: []byte("new")}))

	d, err := r.Get(ctx, "submit", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), d.Payload)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_Missing_ReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "edit", 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Draft{Kind: "edit", PrototypeID: 1, Payload: []byte("x")}))
	require.NoError(t, r.Delete(ctx, "edit", 1))
	require.NoError(t, r.Delete(ctx, "edit", 1))

	_, err := r.Get(ctx, "edit", 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
