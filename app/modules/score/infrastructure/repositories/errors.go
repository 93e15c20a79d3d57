package scoredb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors that indicate database state, not business logic failures.
var (
	// ErrNotFound indicates the requested score does not exist.
	ErrNotFound = errors.New("score not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)
