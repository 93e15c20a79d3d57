package leaderboardservice

import (
	"sort"
	"strings"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	"github.com/shopspring/decimal"
)

// ClubCategory is the category reported on club board rows.
const ClubCategory = "club"

const unknownClub = "Unknown"

type tally struct {
	name      string
	club      string
	category  string
	best      float64
	total     decimal.Decimal
	xCount    int
	count     int
	lastSeen  int
	members   map[string]struct{}
	bestFound bool
}

func (t *tally) add(s leaderboarddomain.Score, seq int) {
	if !t.bestFound || s.Total > t.best {
		t.best = s.Total
		t.category = s.Class
		t.bestFound = true
	}
	t.total = t.total.Add(decimal.NewFromFloat(s.Total))
	t.xCount += s.XCount
	t.count++
	if seq >= t.lastSeen {
		t.lastSeen = seq
		if t.members == nil {
			t.club = s.Club
		}
	}
}

func (t *tally) entry() leaderboarddomain.Entry {
	avg, _ := t.total.Div(decimal.NewFromInt(int64(t.count))).Round(1).Float64()
	sum, _ := t.total.Float64()
	e := leaderboarddomain.Entry{
		UserName:     t.name,
		Club:         t.club,
		Category:     t.category,
		BestScore:    t.best,
		AverageScore: avg,
		TotalScore:   sum,
		TotalXCount:  t.xCount,
		EventCount:   t.count,
	}
	if t.members != nil {
		e.MemberCount = len(t.members)
	}
	return e
}

// chronological returns scores ordered by creation time, then id.
func chronological(scores []leaderboarddomain.Score) []leaderboarddomain.Score {
	out := make([]leaderboarddomain.Score, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// rankEntries sorts by best score, then average, then name, and numbers
// the rows from 1.
func rankEntries(entries []leaderboarddomain.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BestScore != b.BestScore {
			return a.BestScore > b.BestScore
		}
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return strings.ToLower(a.UserName) < strings.ToLower(b.UserName)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// BuildOverall ranks shooters with at least minEvents scores.
func BuildOverall(scores []leaderboarddomain.Score, minEvents int) []leaderboarddomain.Entry {
	tallies := make(map[string]*tally)
	var order []string
	for seq, s := range chronological(scores) {
		key := leaderboarddomain.CompetitorKey(s.ShooterName)
		if key == "" {
			continue
		}
		t, ok := tallies[key]
		if !ok {
			t = &tally{name: strings.TrimSpace(s.ShooterName)}
			tallies[key] = t
			order = append(order, key)
		}
		t.add(s, seq)
	}

	entries := make([]leaderboarddomain.Entry, 0, len(order))
	for _, key := range order {
		if t := tallies[key]; t.count >= minEvents {
			entries = append(entries, t.entry())
		}
	}
	rankEntries(entries)
	return entries
}

// BuildClubs ranks clubs with at least minMembers distinct shooters.
func BuildClubs(scores []leaderboarddomain.Score, minMembers int) []leaderboarddomain.Entry {
	tallies := make(map[string]*tally)
	var order []string
	for seq, s := range chronological(scores) {
		club := strings.TrimSpace(s.Club)
		if club == "" {
			club = unknownClub
		}
		t, ok := tallies[club]
		if !ok {
			t = &tally{name: club, club: club, members: make(map[string]struct{})}
			tallies[club] = t
			order = append(order, club)
		}
		t.add(s, seq)
		t.members[leaderboarddomain.CompetitorKey(s.ShooterName)] = struct{}{}
	}

	entries := make([]leaderboarddomain.Entry, 0, len(order))
	for _, club := range order {
		t := tallies[club]
		if len(t.members) < minMembers {
			continue
		}
		e := t.entry()
		e.Category = ClubCategory
		entries = append(entries, e)
	}
	rankEntries(entries)
	return entries
}

// BuildMatch ranks the scores of one match with the placement rules used
// for imports: per class, highest total first, ties share a place. Rows
// with no place sort last.
func BuildMatch(scores []leaderboarddomain.Score) []leaderboarddomain.Entry {
	records := make([]scoredomain.ScoreRecord, len(scores))
	for i, s := range scores {
		records[i] = scoredomain.ScoreRecord{
			EventName:   s.EventName,
			MatchNumber: s.MatchNumber,
			ShooterName: s.ShooterName,
			Class:       s.Class,
			Total:       s.Total,
		}
	}
	placed := scoredomain.AssignPlaces(records)

	entries := make([]leaderboarddomain.Entry, len(scores))
	for i, s := range scores {
		entries[i] = leaderboarddomain.Entry{
			Rank:         placed[i].Place,
			UserName:     strings.TrimSpace(s.ShooterName),
			Club:         s.Club,
			Category:     s.Class,
			BestScore:    s.Total,
			AverageScore: s.Total,
			TotalScore:   s.Total,
			TotalXCount:  s.XCount,
			EventCount:   1,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if (a.Rank == 0) != (b.Rank == 0) {
			return b.Rank == 0
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.UserName < b.UserName
	})
	return entries
}

// FindShooter returns the rank of the shooter on a board of individual rows.
func FindShooter(entries []leaderboarddomain.Entry, name string) *int {
	key := leaderboarddomain.CompetitorKey(name)
	for _, e := range entries {
		if leaderboarddomain.CompetitorKey(e.UserName) == key {
			rank := e.Rank
			return &rank
		}
	}
	return nil
}

// FindClub returns the rank of a club on a club board.
func FindClub(entries []leaderboarddomain.Entry, club string) *int {
	for _, e := range entries {
		if strings.EqualFold(e.Club, strings.TrimSpace(club)) {
			rank := e.Rank
			return &rank
		}
	}
	return nil
}
