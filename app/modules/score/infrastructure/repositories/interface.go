package scoredb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for score persistence.
type Repository interface {
	// InsertBatch stores a batch of new scores.
	InsertBatch(ctx context.Context, db bun.IDB, scores []*Score) error

	// GetByID retrieves one score.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error)

	// List returns one page of scores matching filter and the total match count.
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Score, int, error)

	// Update replaces the editable fields of a score.
	Update(ctx context.Context, db bun.IDB, score *Score) error

	// UpdateStatus changes the review status of a score.
	UpdateStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status string) error

	// Delete removes a score.
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
}
