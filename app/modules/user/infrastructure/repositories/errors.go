package userdb

import "errors"

// Sentinel errors for the user repository layer. They describe row presence,
// not domain outcomes; the clan service maps them onto its own codes.
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user record not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
