package leaderboardqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	calls int
	err   error
}

func (f *fakeWarmer) Warm(context.Context) error {
	f.calls++
	return f.err
}

func TestRefreshJob_Kind(t *testing.T) {
	assert.Equal(t, "leaderboard_refresh", RefreshJob{}.Kind())
}

func TestRefreshWorker_Work(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := &river.Job[RefreshJob]{
		JobRow: &rivertype.JobRow{ID: 7, Kind: RefreshJob{}.Kind()},
		Args:   RefreshJob{Reason: "score.imported.v1"},
	}

	t.Run("warms", func(t *testing.T) {
		warmer := &fakeWarmer{}
		require.NoError(t, NewRefreshWorker(logger, warmer).Work(context.Background(), job))
		assert.Equal(t, 1, warmer.calls)
	})

	t.Run("failure is retried", func(t *testing.T) {
		warmer := &fakeWarmer{err: errors.New("db down")}
		err := NewRefreshWorker(logger, warmer).Work(context.Background(), job)
		assert.ErrorContains(t, err, "db down")
	})
}
