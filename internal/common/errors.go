// Package common defines shared constants and sentinel errors used across
// the server and the console client. Callers should use errors.Is to match
// these values.
package common

import "errors"

// Error kinds. Every specific error below wraps exactly one of them, so the
// transport layer can map a whole family to a single status.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

var (
	// Repository-level errors.
	ErrorNotFound = kind(ErrNotFound, "record not found")

	// Validation errors.
	ErrInvalidInput = kind(ErrValidation, "invalid input")
	ErrWeakPassword = kind(ErrValidation, "password must be at least 6 characters")

	// Registration errors.
	ErrDuplicateUser = kind(ErrConflict, "username already registered")

	// Login errors.
	ErrUnknownUser = kind(ErrAuth, "unknown username")
	ErrBadPassword = kind(ErrAuth, "wrong password")

	// Token errors.
	ErrTokenMissing   = kind(ErrAuth, "token missing")
	ErrTokenMalformed = kind(ErrAuth, "token invalid")
	ErrTokenExpired   = kind(ErrAuth, "token expired")

	// Catalog errors.
	ErrProductNotFound = kind(ErrNotFound, "product not found")
)

type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Storage wraps a driver or I/O error so that it matches ErrStorage while
// keeping the original cause reachable through errors.Is / errors.As.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }
