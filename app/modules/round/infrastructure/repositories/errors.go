package rounddb

import "errors"

// Sentinel errors for the repository layer. Infrastructure signals only;
// the service layer decides whether one is a domain failure.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("round record not found")
)
