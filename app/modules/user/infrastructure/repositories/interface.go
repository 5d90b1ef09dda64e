package userdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the user rows the clan module reads and the clan_id
// column it maintains. Every method accepts an optional bun.IDB so callers can
// run it inside their transaction; nil falls back to the repository default.
type Repository interface {
	GetUserByID(ctx context.Context, db bun.IDB, userID int64) (*User, error)
	// GetUserForUpdate loads the user and row-locks it until the transaction ends.
	GetUserForUpdate(ctx context.Context, db bun.IDB, userID int64) (*User, error)
	SetClanID(ctx context.Context, db bun.IDB, userID int64, clanID *int64) error
	// ClearClanID nulls clan_id for every user of the clan and returns how many changed.
	ClearClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error)
}
