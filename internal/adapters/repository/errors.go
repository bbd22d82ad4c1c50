package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownBackend  = errors.New("unknown counter backend")
	ErrMalformedRecord = errors.New("malformed counter record")
)
