package bookstore

import "errors"

// Common Book Store errors.
var (
	// ErrNotFound is returned when a book does not exist on the server,
	// e.g. it was deleted by another client between refreshes.
	ErrNotFound = errors.New("not found")
	// ErrRejected is returned when the server answered 2xx but flagged the
	// envelope success=false.
	ErrRejected = errors.New("server rejected the request")
)
