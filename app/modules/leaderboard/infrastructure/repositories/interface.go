package leaderboarddb

import (
	"context"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Repository reads the approved scores that feed the leaderboards.
type Repository interface {
	// ApprovedScores returns approved scores matching q, oldest first.
	ApprovedScores(ctx context.Context, db bun.IDB, q Query) ([]leaderboarddomain.Score, error)
}
