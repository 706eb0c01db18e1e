package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/protodesk/internal/client/migrations"
	"github.com/dmitrijs2005/protodesk/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/protodesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/protodesk/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the local stores opened by InitDatabase.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Drafts   drafts.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at path and
// applies pending migrations.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Drafts:   drafts.NewSQLiteRepository(db),
	}, nil
}
