package scoreservice

import "errors"

// Domain errors for the score service. Handlers map these to 4xx responses.
var (
	// ErrScoreNotFound indicates no stored score has the requested id.
	ErrScoreNotFound = errors.New("score not found")

	// ErrInvalidScoreID indicates the id is not a valid UUID.
	ErrInvalidScoreID = errors.New("invalid score id")

	// ErrInvalidStatus indicates a status filter outside pending, approved and rejected.
	ErrInvalidStatus = errors.New("invalid status")
)

// Failure messages returned to import callers.
const (
	MsgNoScoresProvided = "No scores provided"
	MsgNoValidScores    = "No valid scores to import"
)
