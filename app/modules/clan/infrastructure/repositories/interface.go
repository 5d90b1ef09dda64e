package clandb

import (
	"context"
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for clan persistence. Every method accepts an
// optional bun.IDB so it can join the caller's transaction.
type Repository interface {
	// GetClanByID retrieves a clan. Returns ErrNotFound when absent.
	GetClanByID(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error)
	// GetClanForUpdate is GetClanByID holding the row lock until the transaction ends.
	GetClanForUpdate(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error)
	// GetClanForShare is GetClanByID holding a shared row lock, blocking deletes and edits.
	GetClanForShare(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error)

	// ClanNameExists reports whether a clan other than excludeClanID uses name.
	ClanNameExists(ctx context.Context, db bun.IDB, name string, excludeClanID int64) (bool, error)

	// InsertClan inserts the clan and fills in its id.
	InsertClan(ctx context.Context, db bun.IDB, clan *Clan) error

	UpdateClanName(ctx context.Context, db bun.IDB, clanID int64, name string, changedAt time.Time) error
	UpdateClanAvatar(ctx context.Context, db bun.IDB, clanID int64, avatarURL *string) error
	UpdateClanDescription(ctx context.Context, db bun.IDB, clanID int64, description *string) error
	UpdateClanTag(ctx context.Context, db bun.IDB, clanID int64, tag *string) error

	// DeleteClan removes the clan row. Returns ErrNotFound when absent.
	DeleteClan(ctx context.Context, db bun.IDB, clanID int64) error

	// GetMemberByUserID returns the user's membership. Returns ErrMemberNotFound when absent.
	GetMemberByUserID(ctx context.Context, db bun.IDB, userID int64) (*Member, error)
	InsertMember(ctx context.Context, db bun.IDB, member *Member) error
	DeleteMemberByUserID(ctx context.Context, db bun.IDB, userID int64) error
	DeleteMembersByClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error)

	// GetClanTotalPP sums mode pp over the clan's active members.
	GetClanTotalPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) (float64, error)
	// GetClansByLeaderboard orders clans by total pp DESC, id ASC.
	GetClansByLeaderboard(ctx context.Context, db bun.IDB, mode userdomain.GameMode, limit, offset int) ([]ClanStandingRow, error)
	// GetClanMembersByPP orders the clan's members by pp DESC, user_id ASC.
	GetClanMembersByPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) ([]MemberStandingRow, error)
	CountClans(ctx context.Context, db bun.IDB) (int, error)
}
