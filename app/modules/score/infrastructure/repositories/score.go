package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// InsertBatch stores a batch of new scores.
func (r *Impl) InsertBatch(ctx context.Context, db bun.IDB, scores []*Score) error {
	if len(scores) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, s := range scores {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.CreatedAt = now
		s.UpdatedAt = now
	}
	if _, err := db.NewInsert().Model(&scores).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert scores: %w", err)
	}
	return nil
}

// GetByID retrieves one score.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error) {
	db = r.resolveDB(db)
	score := new(Score)
	err := db.NewSelect().
		Model(score).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return score, nil
}

// List returns one page of scores, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Score, int, error) {
	db = r.resolveDB(db)
	var scores []Score
	q := db.NewSelect().Model(&scores)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EventName != "" {
		q = q.Where("event_name = ?", filter.EventName)
	}
	if filter.Class != "" {
		q = q.Where("competition_class = ?", filter.Class)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	total, err := q.Order("created_at DESC", "id").ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, total, nil
}

// Update replaces the editable fields of a score.
func (r *Impl) Update(ctx context.Context, db bun.IDB, score *Score) error {
	db = r.resolveDB(db)
	score.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(score).
		Column(
			"event_name", "match_number", "shooter_name", "club", "competition_class", "veteran",
			"series1", "series2", "series3", "series4", "series5", "series6",
			"total", "place", "x_count", "match_date", "updated_at",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	return checkAffected(result)
}

// UpdateStatus changes the review status of a score.
func (r *Impl) UpdateStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Score)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score status: %w", err)
	}
	return checkAffected(result)
}

// Delete removes a score.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Score)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
