package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScoreRow is the leaderboard's read view of the scores table.
type ScoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid"`
	EventName        string     `bun:"event_name"`
	MatchNumber      string     `bun:"match_number"`
	ShooterName      string     `bun:"shooter_name"`
	Club             string     `bun:"club"`
	CompetitionClass string     `bun:"competition_class"`
	Veteran          bool       `bun:"veteran"`
	Total            float64    `bun:"total"`
	XCount           int        `bun:"x_count"`
	MatchDate        *time.Time `bun:"match_date"`
	Status           string     `bun:"status"`
	CreatedAt        time.Time  `bun:"created_at"`
}

// Query selects approved scores. Empty fields match everything.
type Query struct {
	EventName   string
	MatchNumber string
	Class       string
	VeteranOnly bool

	// ShooterKey matches the trimmed, case-folded shooter name.
	ShooterKey string

	// Since bounds creation time from below. Zero means no bound.
	Since time.Time
}
