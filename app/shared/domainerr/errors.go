// Package domainerr defines the error taxonomy shared by every module.
// Module specific errors wrap one of these so callers can branch with errors.Is.
package domainerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced entity does not exist in the guild.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicates and same-club operations.
	ErrConflict = errors.New("conflict")
	// ErrInsufficientFunds means a budget would go negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalid rejects malformed input such as negative amounts or past kickoffs.
	ErrInvalid = errors.New("invalid input")
	// ErrStorage wraps persistence failures. Not retried.
	ErrStorage = errors.New("storage failure")
	// ErrExternalSync marks a failed call to the chat platform.
	ErrExternalSync = errors.New("external sync failure")
)

// New returns an error that matches kind via errors.Is and reads as msg.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Storage wraps err as a storage failure for the named operation.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsRecoverable reports whether err is a domain outcome the caller can act on
// without any state having changed.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalid)
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
