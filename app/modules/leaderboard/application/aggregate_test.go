package leaderboardservice

import (
	"testing"
	"time"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func approved(id, name, club, class string, total float64, day int) leaderboarddomain.Score {
	return leaderboarddomain.Score{
		ID:          id,
		EventName:   "Prone Match 1",
		MatchNumber: "1",
		ShooterName: name,
		Club:        club,
		Class:       class,
		Total:       total,
		XCount:      int(total) / 100,
		CreatedAt:   base.AddDate(0, 0, day),
	}
}

func TestBuildOverall(t *testing.T) {
	scores := []leaderboarddomain.Score{
		approved("1", "Anna Smit", "Bloem", "Prone A class", 590, 0),
		approved("2", "anna  smit", "Pretoria", "Prone B class", 580, 2),
		approved("3", "Ben Venter", "Bloem", "Prone A class", 595, 1),
		approved("4", "Carl Botha", "Durban", "Prone C class", 570, 0),
	}

	t.Run("groups by folded name and ranks by best", func(t *testing.T) {
		entries := BuildOverall(scores, 1)
		require.Len(t, entries, 3)

		assert.Equal(t, "Ben Venter", entries[0].UserName)
		assert.Equal(t, 1, entries[0].Rank)

		anna := entries[1]
		assert.Equal(t, 2, anna.Rank)
		assert.Equal(t, "Anna Smit", anna.UserName)
		assert.Equal(t, 590.0, anna.BestScore)
		assert.Equal(t, 585.0, anna.AverageScore)
		assert.Equal(t, 1170.0, anna.TotalScore)
		assert.Equal(t, 2, anna.EventCount)
		assert.Equal(t, "Pretoria", anna.Club, "latest club wins")
		assert.Equal(t, "Prone A class", anna.Category, "class of the best score")
	})

	t.Run("minimum events", func(t *testing.T) {
		entries := BuildOverall(scores, 2)
		require.Len(t, entries, 1)
		assert.Equal(t, "Anna Smit", entries[0].UserName)
		assert.Equal(t, 1, entries[0].Rank)
	})

	t.Run("ties fall back to average then name", func(t *testing.T) {
		tied := []leaderboarddomain.Score{
			approved("1", "Zed", "A", "3P", 500, 0),
			approved("2", "amy", "A", "3P", 500, 0),
			approved("3", "Bob", "A", "3P", 500, 0),
			approved("4", "Bob", "A", "3P", 400, 1),
		}
		entries := BuildOverall(tied, 1)
		require.Len(t, entries, 3)
		assert.Equal(t, []string{"amy", "Zed", "Bob"}, []string{entries[0].UserName, entries[1].UserName, entries[2].UserName})
	})

	t.Run("average rounds to one decimal", func(t *testing.T) {
		entries := BuildOverall([]leaderboarddomain.Score{
			approved("1", "Anna", "A", "3P", 100.1, 0),
			approved("2", "Anna", "A", "3P", 100.2, 1),
			approved("3", "Anna", "A", "3P", 100.2, 2),
		}, 1)
		require.Len(t, entries, 1)
		assert.Equal(t, 100.2, entries[0].AverageScore)
	})

	t.Run("blank names are skipped", func(t *testing.T) {
		entries := BuildOverall([]leaderboarddomain.Score{approved("1", "  ", "A", "3P", 100, 0)}, 1)
		assert.Empty(t, entries)
	})
}

func TestBuildClubs(t *testing.T) {
	scores := []leaderboarddomain.Score{
		approved("1", "Anna", "Bloem", "3P", 590, 0),
		approved("2", "Ben", "Bloem", "3P", 580, 1),
		approved("3", "anna", "Bloem", "3P", 600, 2),
		approved("4", "Carl", "Durban", "3P", 599, 0),
		approved("5", "Dee", "", "3P", 500, 0),
	}

	entries := BuildClubs(scores, 1)
	require.Len(t, entries, 3)

	assert.Equal(t, "Bloem", entries[0].UserName)
	assert.Equal(t, 2, entries[0].MemberCount)
	assert.Equal(t, 3, entries[0].EventCount)
	assert.Equal(t, ClubCategory, entries[0].Category)
	assert.Equal(t, "Unknown", entries[2].Club)

	entries = BuildClubs(scores, 2)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bloem", entries[0].Club)
}

func TestBuildMatch(t *testing.T) {
	scores := []leaderboarddomain.Score{
		approved("1", "Anna", "A", "Prone B class", 580, 0),
		approved("2", "Ben", "A", "Prone A class", 590, 0),
		approved("3", "Carl", "A", "Prone A class", 595, 0),
		approved("4", "Dee", "A", "Prone A class", 590, 0),
		approved("5", "Eve", "A", "Prone A class", 0, 0),
	}

	entries := BuildMatch(scores)
	require.Len(t, entries, 5)

	got := make([]string, len(entries))
	ranks := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.UserName
		ranks[i] = e.Rank
	}
	assert.Equal(t, []string{"Carl", "Ben", "Dee", "Eve", "Anna"}, got)
	assert.Equal(t, []int{1, 2, 2, 0, 1}, ranks)
}

func TestFindShooterAndClub(t *testing.T) {
	entries := BuildOverall([]leaderboarddomain.Score{
		approved("1", "Anna Smit", "Bloem", "3P", 590, 0),
		approved("2", "Ben", "Durban", "3P", 595, 0),
	}, 1)

	rank := FindShooter(entries, "  ANNA   smit ")
	require.NotNil(t, rank)
	assert.Equal(t, 2, *rank)
	assert.Nil(t, FindShooter(entries, "nobody"))

	clubRank := FindClub(BuildClubs(nil, 1), "Bloem")
	assert.Nil(t, clubRank)

	clubRank = FindClub(entries, "durban")
	require.NotNil(t, clubRank)
	assert.Equal(t, 1, *clubRank)
}
