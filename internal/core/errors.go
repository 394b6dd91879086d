package core

import "errors"

// Domain failure taxonomy. Services return these (possibly wrapped);
// the API layer maps each to a fixed HTTP status and a stable body and
// never exposes anything else.
var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user, so a caller cannot probe for the existence of other users'
	// resources.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned for an unknown email and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers expired, malformed, badly signed and
	// wrong-kind tokens.
	ErrInvalidToken = errors.New("invalid token")

	ErrValidation = errors.New("invalid input")

	// ErrAIUnavailable is surfaced when the model server is unreachable,
	// times out, or returns an error. The audit trace is written before
	// this is returned.
	ErrAIUnavailable = errors.New("ai service unavailable")
)
