package service

import "errors"

var (
	// ErrUnauthorized covers every credential failure: bad signature, wrong
	// token type, unknown or expired session, owner mismatch. Callers get no
	// finer detail.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the resource exists but belongs to someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks a request rejected before any persistence, such
	// as an unparseable date. Boundary maps it to 400.
	ErrInvalidInput = errors.New("invalid input")
)
