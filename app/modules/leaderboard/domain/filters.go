package leaderboarddomain

import (
	"strings"
	"time"
)

// Time periods accepted by the time_period filter.
const (
	PeriodAll   = "all"
	PeriodYear  = "year"
	PeriodMonth = "month"
	PeriodWeek  = "week"
)

// CategoryVeteran selects veteran-flagged scores instead of a class.
const CategoryVeteran = "veteran"

// Page bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// PeriodDays maps a time period onto its look-back window.
var PeriodDays = map[string]int{
	PeriodYear:  365,
	PeriodMonth: 30,
	PeriodWeek:  7,
}

// Filters narrows the scores that feed a board.
type Filters struct {
	Discipline string
	Category   string
	TimePeriod string
	SinceText  string

	// Since is the earliest creation time included. Zero means no bound.
	Since time.Time

	Page  int
	Limit int
}

// IsVeteranCategory reports whether the category filter selects veterans.
func (f Filters) IsVeteranCategory() bool {
	return strings.EqualFold(f.Category, CategoryVeteran)
}

// CacheKey identifies the score selection and page of f.
func (f Filters) CacheKey(board string) string {
	since := ""
	if !f.Since.IsZero() {
		since = f.Since.UTC().Truncate(time.Minute).Format(time.RFC3339)
	}
	return strings.Join([]string{board, f.Discipline, strings.ToLower(f.Category), f.TimePeriod, since}, "|")
}

// Echo returns the filters as reported back in a board.
func (f Filters) Echo() map[string]string {
	out := map[string]string{"time_period": f.TimePeriod}
	if f.Discipline != "" {
		out["discipline"] = f.Discipline
	}
	if f.Category != "" {
		out["category"] = f.Category
	}
	if f.SinceText != "" {
		out["since"] = f.SinceText
	}
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
