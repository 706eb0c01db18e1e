package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/common"
	"github.com/dmitrijs2005/protodesk/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d *models.Draft) error {
	query := `INSERT INTO drafts (kind, prototype_id, payload, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(kind, prototype_id) DO UPDATE SET payload = excluded.payload,
				updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, d.Kind, d.PrototypeID, d.Payload); err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, kind string, prototypeID int64) (*models.Draft, error) {
	query := `SELECT kind, prototype_id, payload, updated_at FROM drafts WHERE kind = ? AND prototype_id = ?`

	d := &models.Draft{}
	err := r.db.QueryRowContext(ctx, query, kind, prototypeID).Scan(&d.Kind, &d.PrototypeID, &d.Payload, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft[%s/%d]: %w", kind, prototypeID, err)
	}
	return d, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind string, prototypeID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE kind = ? AND prototype_id = ?`, kind, prototypeID); err != nil {
		return fmt.Errorf("failed to delete draft[%s/%d]: %w", kind, prototypeID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, prototype_id, payload, updated_at FROM drafts ORDER BY updated_at DESC, kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.Kind, &d.PrototypeID, &d.Payload, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}
	return result, nil
}
