package leaderboardintegration

import (
	"context"
	"testing"
	"time"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/satrf/scorekeeper/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, env *testutils.TestEnvironment) {
	t.Helper()
	ctx := context.Background()
	gen := testutils.NewDataGenerator(7)

	anna := gen.Score("b1", "Prone Match 1", "1", "Prone A class", "  Anna   Smit ", "Bloem", "approved")
	anna.Veteran = true
	annaAgain := gen.Score("b1", "Prone Match 1", "2", "Prone A class", "anna smit", "Bloem", "approved")
	annaAgain.Veteran = false
	ben := gen.Score("b1", "3P", "1", "3P", "Ben Venter", "Durban", "approved")
	ben.Veteran = false
	pending := gen.Score("b2", "3P", "1", "3P", "Carl Botha", "Durban", "pending")
	rejected := gen.Score("b2", "3P", "1", "3P", "Dee Nel", "Durban", "rejected")

	require.NoError(t, scoredb.NewRepository(env.DB).InsertBatch(ctx, nil, []*scoredb.Score{anna, annaAgain, ben, pending, rejected}))

	_, err := env.DB.ExecContext(ctx, "UPDATE scores SET created_at = ? WHERE id = ?", time.Now().UTC().AddDate(0, -2, 0), anna.ID)
	require.NoError(t, err)
}

func TestLeaderboardRepository_ApprovedScores(t *testing.T) {
	env := testutils.Env(t)
	env.Reset(t)
	seed(t, env)
	repo := leaderboarddb.NewRepository(env.DB)
	ctx := context.Background()

	tests := []struct {
		name  string
		query leaderboarddb.Query
		want  int
	}{
		{name: "approved only", query: leaderboarddb.Query{}, want: 3},
		{name: "event", query: leaderboarddb.Query{EventName: "3P"}, want: 1},
		{name: "match", query: leaderboarddb.Query{EventName: "Prone Match 1", MatchNumber: "2"}, want: 1},
		{name: "class", query: leaderboarddb.Query{Class: "Prone A class"}, want: 2},
		{name: "veteran", query: leaderboarddb.Query{VeteranOnly: true}, want: 1},
		{name: "shooter key folds case and spacing", query: leaderboarddb.Query{ShooterKey: leaderboarddomain.CompetitorKey("ANNA SMIT")}, want: 2},
		{name: "since", query: leaderboarddb.Query{Since: time.Now().UTC().AddDate(0, -1, 0)}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := repo.ApprovedScores(ctx, nil, tt.query)
			require.NoError(t, err)
			assert.Len(t, scores, tt.want)
			for i := 1; i < len(scores); i++ {
				assert.False(t, scores[i].CreatedAt.Before(scores[i-1].CreatedAt), "oldest first")
			}
		})
	}
}
