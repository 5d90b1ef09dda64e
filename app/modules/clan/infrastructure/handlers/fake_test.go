package clanhandlers

import (
	"context"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clanqueue "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/queue"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Clan Service
// ------------------------

type FakeService struct {
	trace []string

	CreateClanFunc            func(ctx context.Context, name string, avatarURL *string, creator userdomain.Identity) (clanservice.ClanResult, error)
	JoinClanFunc              func(ctx context.Context, clanID, userID int64) (clanservice.ClanResult, error)
	LeaveClanFunc             func(ctx context.Context, userID int64) (clanservice.ClanIDResult, error)
	KickClanMemberFunc        func(ctx context.Context, actorID, targetID int64) (clanservice.ClanResult, error)
	DeleteClanFunc            func(ctx context.Context, actorID int64, actorIsRestricted bool) (clanservice.ClanIDResult, error)
	DeleteClanByAdminFunc     func(ctx context.Context, clanID int64) (clanservice.ClanIDResult, error)
	UpdateClanAvatarFunc      func(ctx context.Context, actorID int64, avatarURL *string) (clanservice.ClanResult, error)
	UpdateClanDescriptionFunc func(ctx context.Context, actorID int64, description *string) (clanservice.ClanResult, error)
	UpdateClanTagFunc         func(ctx context.Context, actorID int64, tag *string) (clanservice.ClanResult, error)
	UpdateClanNameFunc        func(ctx context.Context, actorID int64, name string, hasSupporter bool) (clanservice.ClanResult, error)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func clanOK(id int64) clanservice.ClanResult {
	c := &clandomain.Clan{ID: id}
	return clanservice.ClanResult{Success: &c}
}

func clanIDOK(id int64) clanservice.ClanIDResult {
	return clanservice.ClanIDResult{Success: &id}
}

func clanFailed(code clandomain.Code) clanservice.ClanResult {
	f := clandomain.NewFailure(code)
	return clanservice.ClanResult{Failure: &f}
}

func clanIDFailed(code clandomain.Code) clanservice.ClanIDResult {
	f := clandomain.NewFailure(code)
	return clanservice.ClanIDResult{Failure: &f}
}

func (f *FakeService) CreateClan(ctx context.Context, name string, avatarURL *string, creator userdomain.Identity) (clanservice.ClanResult, error) {
	f.record("CreateClan")
	if f.CreateClanFunc != nil {
		return f.CreateClanFunc(ctx, name, avatarURL, creator)
	}
	return clanOK(1), nil
}

func (f *FakeService) JoinClan(ctx context.Context, clanID, userID int64) (clanservice.ClanResult, error) {
	f.record("JoinClan")
	if f.JoinClanFunc != nil {
		return f.JoinClanFunc(ctx, clanID, userID)
	}
	return clanOK(clanID), nil
}

func (f *FakeService) LeaveClan(ctx context.Context, userID int64) (clanservice.ClanIDResult, error) {
	f.record("LeaveClan")
	if f.LeaveClanFunc != nil {
		return f.LeaveClanFunc(ctx, userID)
	}
	return clanIDOK(1), nil
}

func (f *FakeService) KickClanMember(ctx context.Context, actorID, targetID int64) (clanservice.ClanResult, error) {
	f.record("KickClanMember")
	if f.KickClanMemberFunc != nil {
		return f.KickClanMemberFunc(ctx, actorID, targetID)
	}
	return clanOK(1), nil
}

func (f *FakeService) DeleteClan(ctx context.Context, actorID int64, actorIsRestricted bool) (clanservice.ClanIDResult, error) {
	f.record("DeleteClan")
	if f.DeleteClanFunc != nil {
		return f.DeleteClanFunc(ctx, actorID, actorIsRestricted)
	}
	return clanIDOK(1), nil
}

func (f *FakeService) DeleteClanByAdmin(ctx context.Context, clanID int64) (clanservice.ClanIDResult, error) {
	f.record("DeleteClanByAdmin")
	if f.DeleteClanByAdminFunc != nil {
		return f.DeleteClanByAdminFunc(ctx, clanID)
	}
	return clanIDOK(clanID), nil
}

func (f *FakeService) UpdateClanAvatar(ctx context.Context, actorID int64, avatarURL *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanAvatar")
	if f.UpdateClanAvatarFunc != nil {
		return f.UpdateClanAvatarFunc(ctx, actorID, avatarURL)
	}
	return clanOK(1), nil
}

func (f *FakeService) UpdateClanDescription(ctx context.Context, actorID int64, description *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanDescription")
	if f.UpdateClanDescriptionFunc != nil {
		return f.UpdateClanDescriptionFunc(ctx, actorID, description)
	}
	return clanOK(1), nil
}

func (f *FakeService) UpdateClanTag(ctx context.Context, actorID int64, tag *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanTag")
	if f.UpdateClanTagFunc != nil {
		return f.UpdateClanTagFunc(ctx, actorID, tag)
	}
	return clanOK(1), nil
}

func (f *FakeService) UpdateClanName(ctx context.Context, actorID int64, name string, hasSupporter bool) (clanservice.ClanResult, error) {
	f.record("UpdateClanName")
	if f.UpdateClanNameFunc != nil {
		return f.UpdateClanNameFunc(ctx, actorID, name, hasSupporter)
	}
	return clanOK(1), nil
}

// ------------------------
// Fake Leaderboard
// ------------------------

type FakeLeaderboard struct {
	trace []string

	GetClanDetailsFunc     func(ctx context.Context, clanID int64, mode userdomain.GameMode) (*clandomain.ClanDetails, error)
	GetUserClanDetailsFunc func(ctx context.Context, userID int64, mode *userdomain.GameMode) (*clandomain.ClanDetails, error)
	ClansByLeaderboardFunc func(ctx context.Context, mode userdomain.GameMode, page clandomain.Pagination) (*clanservice.LeaderboardPage, error)
}

func (f *FakeLeaderboard) Trace() []string {
	return f.trace
}

func (f *FakeLeaderboard) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboard) GetClanDetails(ctx context.Context, clanID int64, mode userdomain.GameMode) (*clandomain.ClanDetails, error) {
	f.record("GetClanDetails")
	if f.GetClanDetailsFunc != nil {
		return f.GetClanDetailsFunc(ctx, clanID, mode)
	}
	return &clandomain.ClanDetails{Clan: clandomain.Clan{ID: clanID, Name: "clan"}, Mode: mode}, nil
}

func (f *FakeLeaderboard) GetUserClanDetails(ctx context.Context, userID int64, mode *userdomain.GameMode) (*clandomain.ClanDetails, error) {
	f.record("GetUserClanDetails")
	if f.GetUserClanDetailsFunc != nil {
		return f.GetUserClanDetailsFunc(ctx, userID, mode)
	}
	return nil, clandomain.NewFailure(clandomain.CodeClanNotFound)
}

func (f *FakeLeaderboard) ClanTotalPP(context.Context, int64, userdomain.GameMode) (float64, error) {
	f.record("ClanTotalPP")
	return 0, nil
}

func (f *FakeLeaderboard) ClansByLeaderboard(ctx context.Context, mode userdomain.GameMode, page clandomain.Pagination) (*clanservice.LeaderboardPage, error) {
	f.record("ClansByLeaderboard")
	if f.ClansByLeaderboardFunc != nil {
		return f.ClansByLeaderboardFunc(ctx, mode, page)
	}
	return &clanservice.LeaderboardPage{}, nil
}

func (f *FakeLeaderboard) ClanMembersByPP(context.Context, int64, userdomain.GameMode) ([]clandomain.MemberStanding, error) {
	f.record("ClanMembersByPP")
	return nil, nil
}

func (f *FakeLeaderboard) CountClans(context.Context) (int, error) {
	f.record("CountClans")
	return 0, nil
}

// ------------------------
// Fake Presence
// ------------------------

type FakePresence struct {
	OnlineFunc func(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

func (f *FakePresence) Touch(context.Context, int64) error { return nil }

func (f *FakePresence) Online(ctx context.Context, userIDs []int64) (map[int64]bool, error) {
	if f.OnlineFunc != nil {
		return f.OnlineFunc(ctx, userIDs)
	}
	return map[int64]bool{}, nil
}

// ------------------------
// Admin channel fakes
// ------------------------

type FakeUserReader struct {
	GetUserByIDFunc func(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error)
}

func (f *FakeUserReader) GetUserByID(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error) {
	if f.GetUserByIDFunc != nil {
		return f.GetUserByIDFunc(ctx, db, userID)
	}
	return nil, userdb.ErrNotFound
}

type FakeDispatcher struct {
	jobs []clanqueue.AdminDeleteJob

	DispatchAdminDeleteFunc func(ctx context.Context, job clanqueue.AdminDeleteJob) error
}

func (f *FakeDispatcher) DispatchAdminDelete(ctx context.Context, job clanqueue.AdminDeleteJob) error {
	f.jobs = append(f.jobs, job)
	if f.DispatchAdminDeleteFunc != nil {
		return f.DispatchAdminDeleteFunc(ctx, job)
	}
	return nil
}

func (f *FakeDispatcher) Start(context.Context) error { return nil }
func (f *FakeDispatcher) Stop(context.Context) error  { return nil }

type FakeReplier struct {
	replies []clanqueue.AdminReply
}

func (f *FakeReplier) Reply(_ context.Context, reply clanqueue.AdminReply) error {
	f.replies = append(f.replies, reply)
	return nil
}

var (
	_ clanservice.Service     = (*FakeService)(nil)
	_ clanservice.Leaderboard = (*FakeLeaderboard)(nil)
	_ presence.Store          = (*FakePresence)(nil)
	_ UserReader              = (*FakeUserReader)(nil)
	_ clanqueue.Dispatcher    = (*FakeDispatcher)(nil)
	_ clanqueue.Replier       = (*FakeReplier)(nil)
)
