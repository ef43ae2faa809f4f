package sidebetdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested bet does not exist.
	ErrNotFound = errors.New("side bet not found")

	// ErrNoRowsAffected indicates an UPDATE matched no rows, typically a
	// winner declaration naming a player outside the bet.
	ErrNoRowsAffected = errors.New("no rows affected")
)
