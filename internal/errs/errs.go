// Package errs holds the sentinel errors shared across the backend.
// Callers match them with errors.Is and map them to HTTP statuses or
// connection rejections at the edge.
package errs

import "errors"

var (
	// ErrConflict marks a uniqueness violation (username or invite taken).
	ErrConflict = errors.New("conflict")

	// ErrAuth marks a missing, malformed or forged token. Its text doubles
	// as the reject reason sent to websocket clients.
	ErrAuth = errors.New("auth fail")

	// ErrNotFound marks an invite or channel that doesn't resolve.
	ErrNotFound = errors.New("not found")
)
