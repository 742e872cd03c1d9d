package backend

import "errors"

var (
	// ErrUnauthorized is returned when the backend explicitly rejects
	// the token. It is the only error class that ends a session.
	ErrUnauthorized = errors.New("backend: unauthorized")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("backend: not found")
)
