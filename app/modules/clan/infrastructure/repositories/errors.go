package clandb

import "errors"

var (
	// ErrNotFound is returned when a clan is not found.
	ErrNotFound = errors.New("clan not found")

	// ErrMemberNotFound is returned when a user has no membership row.
	ErrMemberNotFound = errors.New("clan member not found")
)

// Constraint names declared by the clan migrations.
const (
	ConstraintClanName       = "clan_name_key"
	ConstraintMemberUser     = "clan_member_user_id_key"
	ConstraintMemberClanUser = "clan_member_clan_id_user_id_key"
)
