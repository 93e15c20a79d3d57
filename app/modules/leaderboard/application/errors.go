package leaderboardservice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter is wrapped by every query parameter rejection.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrShooterNotFound indicates a shooter has no approved scores.
	ErrShooterNotFound = errors.New("shooter not found")
)

// FilterError names the query parameter that was rejected.
type FilterError struct {
	Param string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("Invalid %s: %q", e.Param, e.Value)
}

func (e *FilterError) Unwrap() error {
	return ErrInvalidFilter
}
