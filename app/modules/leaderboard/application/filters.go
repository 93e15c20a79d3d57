package leaderboardservice

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
)

var sinceParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseFilters reads board filters from query parameters. Relative
// expressions in "since" are resolved against now.
func ParseFilters(q url.Values, now time.Time) (leaderboarddomain.Filters, error) {
	f := leaderboarddomain.Filters{
		Discipline: strings.TrimSpace(q.Get("discipline")),
		Category:   strings.TrimSpace(q.Get("category")),
		TimePeriod: strings.ToLower(strings.TrimSpace(q.Get("time_period"))),
		SinceText:  strings.TrimSpace(q.Get("since")),
	}

	if f.Discipline != "" && !scoredomain.IsKnownEvent(f.Discipline) {
		return f, &FilterError{Param: "discipline", Value: f.Discipline}
	}
	if f.Category != "" && !f.IsVeteranCategory() && !scoredomain.IsCompetitionClass(f.Category) {
		return f, &FilterError{Param: "category", Value: f.Category}
	}

	if f.TimePeriod == "" {
		f.TimePeriod = leaderboarddomain.PeriodAll
	}
	if f.TimePeriod != leaderboarddomain.PeriodAll {
		days, ok := leaderboarddomain.PeriodDays[f.TimePeriod]
		if !ok {
			return f, &FilterError{Param: "time_period", Value: q.Get("time_period")}
		}
		f.Since = now.AddDate(0, 0, -days)
	}

	if f.SinceText != "" {
		since, err := ParseSince(f.SinceText, now)
		if err != nil {
			return f, &FilterError{Param: "since", Value: f.SinceText}
		}
		if since.After(f.Since) {
			f.Since = since
		}
	}

	page, limit, err := ParsePage(q)
	if err != nil {
		return f, err
	}
	f.Page, f.Limit = page, limit
	return f, nil
}

// ParsePage reads page and limit. Page defaults to 1 and limit to 50;
// limit may not exceed 100.
func ParsePage(q url.Values) (int, int, error) {
	page, limit := 1, leaderboarddomain.DefaultLimit
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, &FilterError{Param: "page", Value: v}
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > leaderboarddomain.MaxLimit {
			return 0, 0, &FilterError{Param: "limit", Value: v}
		}
		limit = n
	}
	return page, limit, nil
}

// ParseSince accepts a date in any common layout or natural language such
// as "2 weeks ago".
func ParseSince(text string, now time.Time) (time.Time, error) {
	if t, err := dateparse.ParseIn(text, now.Location()); err == nil {
		return t, nil
	}
	r, err := sinceParser.Parse(text, now)
	if err != nil {
		return time.Time{}, err
	}
	if r == nil {
		return time.Time{}, ErrInvalidFilter
	}
	return r.Time, nil
}
