package leaderboardqueue

// RefreshJob recomputes the cached leaderboards after scores change.
type RefreshJob struct {
	Reason string `json:"reason"`
}

// Kind returns the job type identifier for River
func (RefreshJob) Kind() string { return "leaderboard_refresh" }
