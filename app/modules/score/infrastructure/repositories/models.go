package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Score is one stored match result.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid"`
	BatchID          string     `bun:"batch_id,notnull"`
	EventName        string     `bun:"event_name,notnull"`
	MatchNumber      string     `bun:"match_number,notnull"`
	ShooterName      string     `bun:"shooter_name,notnull"`
	Club             string     `bun:"club,notnull"`
	CompetitionClass string     `bun:"competition_class,notnull"`
	Veteran          bool       `bun:"veteran,notnull"`
	Series1          float64    `bun:"series1,notnull"`
	Series2          float64    `bun:"series2,notnull"`
	Series3          float64    `bun:"series3,notnull"`
	Series4          float64    `bun:"series4,notnull"`
	Series5          float64    `bun:"series5,notnull"`
	Series6          float64    `bun:"series6,notnull"`
	Total            float64    `bun:"total,notnull"`
	Place            *int       `bun:"place"`
	XCount           int        `bun:"x_count,notnull"`
	MatchDate        *time.Time `bun:"match_date"`
	Status           string     `bun:"status,notnull"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ListFilter narrows a score listing. Empty fields match everything.
type ListFilter struct {
	Status    string
	EventName string
	Class     string
	Limit     int
	Offset    int
}
