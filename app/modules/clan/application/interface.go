package clanservice

import (
	"context"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/pkg/results"
)

// ClanResult carries the clan after a successful mutation.
type ClanResult = results.OperationResult[*clandomain.Clan, *clandomain.Failure]

// ClanIDResult carries the id of the clan that was left or deleted.
type ClanIDResult = results.OperationResult[int64, *clandomain.Failure]

// Service defines the clan membership state machine. Domain failures are
// returned in the result; the error is reserved for storage faults.
type Service interface {
	CreateClan(ctx context.Context, name string, avatarURL *string, creator userdomain.Identity) (ClanResult, error)
	JoinClan(ctx context.Context, clanID, userID int64) (ClanResult, error)
	LeaveClan(ctx context.Context, userID int64) (ClanIDResult, error)
	KickClanMember(ctx context.Context, actorID, targetID int64) (ClanResult, error)

	DeleteClan(ctx context.Context, actorID int64, actorIsRestricted bool) (ClanIDResult, error)
	// DeleteClanByAdmin skips actor authorization; only the admin channel calls it.
	DeleteClanByAdmin(ctx context.Context, clanID int64) (ClanIDResult, error)

	UpdateClanAvatar(ctx context.Context, actorID int64, avatarURL *string) (ClanResult, error)
	UpdateClanDescription(ctx context.Context, actorID int64, description *string) (ClanResult, error)
	UpdateClanTag(ctx context.Context, actorID int64, tag *string) (ClanResult, error)
	UpdateClanName(ctx context.Context, actorID int64, name string, hasSupporter bool) (ClanResult, error)
}

// LeaderboardPage is one page of the clan leaderboard.
type LeaderboardPage struct {
	Clans      []clandomain.ClanStanding
	TotalCount int
}

// Leaderboard defines the read side: aggregates and ordered listings.
type Leaderboard interface {
	GetClanDetails(ctx context.Context, clanID int64, mode userdomain.GameMode) (*clandomain.ClanDetails, error)
	// GetUserClanDetails reads the user's clan; a nil mode uses the user's default mode.
	GetUserClanDetails(ctx context.Context, userID int64, mode *userdomain.GameMode) (*clandomain.ClanDetails, error)
	ClanTotalPP(ctx context.Context, clanID int64, mode userdomain.GameMode) (float64, error)
	ClansByLeaderboard(ctx context.Context, mode userdomain.GameMode, page clandomain.Pagination) (*LeaderboardPage, error)
	ClanMembersByPP(ctx context.Context, clanID int64, mode userdomain.GameMode) ([]clandomain.MemberStanding, error)
	CountClans(ctx context.Context) (int, error)
}

var (
	_ Service     = (*ClanService)(nil)
	_ Leaderboard = (*LeaderboardService)(nil)
)
