package drafts

import (
	"context"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
)

// Repository stores workflow drafts.
type Repository interface {
	// Save inserts a draft or replaces the one with the same key.
	Save(ctx context.Context, d *models.Draft) error

	// Get returns the draft for the key, or common.ErrorNotFound.
	Get(ctx context.Context, kind string, prototypeID int64) (*models.Draft, error)

	// Delete removes the draft for the key. Deleting a missing draft is not an error.
	Delete(ctx context.Context, kind string, prototypeID int64) error

	// List returns all drafts, most recently updated first.
	List(ctx context.Context) ([]models.Draft, error)
}
