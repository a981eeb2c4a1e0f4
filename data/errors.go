package data

import "errors"

// Standard errors shared by all textdb packages.
var (
	// Lookup errors
	ErrNotFound    = errors.New("textdb: not found")
	ErrInvalidPath = errors.New("textdb: invalid path detected")

	// Document errors
	ErrParse        = errors.New("textdb: malformed document")
	ErrFormat       = errors.New("textdb: invalid format")
	ErrSubstitution = errors.New("textdb: unresolved placeholder")

	// Repository consistency errors.
	// These always indicate a malformed metadata tree and are never
	// recovered from automatically.
	ErrConflict = errors.New("textdb: conflict")
)
