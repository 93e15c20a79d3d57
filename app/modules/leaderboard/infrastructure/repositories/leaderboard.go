package leaderboarddb

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

const statusApproved = "approved"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
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

// ApprovedScores returns approved scores matching q, oldest first.
func (r *Impl) ApprovedScores(ctx context.Context, db bun.IDB, q Query) ([]leaderboarddomain.Score, error) {
	db = r.resolveDB(db)

	var rows []ScoreRow
	sel := db.NewSelect().
		Model(&rows).
		Where("status = ?", statusApproved)
	if q.EventName != "" {
		sel = sel.Where("event_name = ?", q.EventName)
	}
	if q.MatchNumber != "" {
		sel = sel.Where("match_number = ?", q.MatchNumber)
	}
	if q.Class != "" {
		sel = sel.Where("competition_class = ?", q.Class)
	}
	if q.VeteranOnly {
		sel = sel.Where("veteran = TRUE")
	}
	if q.ShooterKey != "" {
		sel = sel.Where(`lower(regexp_replace(btrim(shooter_name), '\s+', ' ', 'g')) = ?`, q.ShooterKey)
	}
	if !q.Since.IsZero() {
		sel = sel.Where("created_at >= ?", q.Since)
	}

	if err := sel.Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load approved scores: %w", err)
	}

	out := make([]leaderboarddomain.Score, len(rows))
	for i, row := range rows {
		out[i] = leaderboarddomain.Score{
			ID:          row.ID.String(),
			EventName:   row.EventName,
			MatchNumber: row.MatchNumber,
			ShooterName: row.ShooterName,
			Club:        row.Club,
			Class:       row.CompetitionClass,
			Veteran:     row.Veteran,
			Total:       row.Total,
			XCount:      row.XCount,
			MatchDate:   row.MatchDate,
			CreatedAt:   row.CreatedAt,
		}
	}
	return out, nil
}
