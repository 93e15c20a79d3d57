// Package leaderboarddomain holds the ranking types served by the
// leaderboard endpoints.
package leaderboarddomain

import "time"

// Score is an approved score as read by the aggregator.
type Score struct {
	ID          string
	EventName   string
	MatchNumber string
	ShooterName string
	Club        string
	Class       string
	Veteran     bool
	Total       float64
	XCount      int
	MatchDate   *time.Time
	CreatedAt   time.Time
}

// CompetitorKey identifies a shooter across scores: the trimmed,
// case-folded name.
func CompetitorKey(name string) string {
	return foldName(name)
}

// Entry is one ranked row on a board.
type Entry struct {
	Rank         int     `json:"rank"`
	UserName     string  `json:"userName"`
	Club         string  `json:"club"`
	Category     string  `json:"category"`
	BestScore    float64 `json:"bestScore"`
	AverageScore float64 `json:"averageScore"`
	TotalScore   float64 `json:"totalScore"`
	TotalXCount  int     `json:"totalXCount"`
	EventCount   int     `json:"eventCount"`
	MemberCount  int     `json:"memberCount,omitempty"`
}

// Board is one page of a ranking.
type Board struct {
	Data       []Entry           `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Filters    map[string]string `json:"filters"`
}

// Paginate slices ranked entries into a board page. Pages past the end are
// empty.
func Paginate(entries []Entry, page, limit int, filters map[string]string) Board {
	if limit < 1 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	start := len(entries)
	if page-1 <= len(entries)/limit {
		start = min((page-1)*limit, len(entries))
	}
	end := min(start+limit, len(entries))
	data := make([]Entry, end-start)
	copy(data, entries[start:end])
	return Board{
		Data:       data,
		Total:      len(entries),
		Page:       page,
		Limit:      limit,
		TotalPages: (len(entries) + limit - 1) / limit,
		Filters:    filters,
	}
}

// Statistics summarises one shooter's approved scores and positions.
type Statistics struct {
	ShooterName  string  `json:"shooterName"`
	Club         string  `json:"club"`
	Category     string  `json:"category"`
	TotalScores  int     `json:"totalScores"`
	BestScore    float64 `json:"bestScore"`
	AverageScore float64 `json:"averageScore"`
	TotalXCount  int     `json:"totalXCount"`
	CurrentRank  *int    `json:"currentRank"`
	ClubRank     *int    `json:"clubRank"`
	CategoryRank *int    `json:"categoryRank"`
}

// HistoryPoint is one score on a shooter's timeline.
type HistoryPoint struct {
	At        time.Time
	Total     float64
	EventName string
}
