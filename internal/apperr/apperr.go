// Package apperr defines the sentinel errors shared by services, the worker
// and the HTTP layer. Controllers translate them to status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrConflict is returned when a username is already taken.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned on login with an unknown username or a
	// mismatched password. Deliberately indistinguishable between the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a bearer token is missing, malformed,
	// expired, or names a user that no longer resolves.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when a caller touches a question they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for an unknown question id.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when the answer generator cannot be
	// reached or replies with a failure.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
