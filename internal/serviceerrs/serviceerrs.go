package serviceerrs

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds: credit line reached")
	ErrInvalidAmount     = errors.New("amount must be a positive number of credits")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrTokenExpired      = errors.New("token expired")
	ErrUnexpected        = errors.New("unexpected error")
)

// PersistenceError reports a change that could not be written to one of the
// persistence targets. It is logged and counted, never returned to ledger callers.
type PersistenceError struct {
	Err      error
	Target   string
	UserID   string
	Change   string
	Attempts int
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s for user %s to %s after %d attempt(s): %v",
		e.Change, e.UserID, e.Target, e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
