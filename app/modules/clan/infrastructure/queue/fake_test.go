package clanqueue

import (
	"context"
	"sync"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
)

// FakeService only programs DeleteClanByAdmin; the queue calls nothing else.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	DeleteClanByAdminFunc func(ctx context.Context, clanID int64) (clanservice.ClanIDResult, error)
}

func (f *FakeService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeService) DeleteClanByAdmin(ctx context.Context, clanID int64) (clanservice.ClanIDResult, error) {
	f.record("DeleteClanByAdmin")
	if f.DeleteClanByAdminFunc != nil {
		return f.DeleteClanByAdminFunc(ctx, clanID)
	}
	return clanservice.ClanIDResult{Success: &clanID}, nil
}

func (f *FakeService) CreateClan(context.Context, string, *string, userdomain.Identity) (clanservice.ClanResult, error) {
	f.record("CreateClan")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) JoinClan(context.Context, int64, int64) (clanservice.ClanResult, error) {
	f.record("JoinClan")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) LeaveClan(context.Context, int64) (clanservice.ClanIDResult, error) {
	f.record("LeaveClan")
	return clanservice.ClanIDResult{}, nil
}

func (f *FakeService) KickClanMember(context.Context, int64, int64) (clanservice.ClanResult, error) {
	f.record("KickClanMember")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) DeleteClan(context.Context, int64, bool) (clanservice.ClanIDResult, error) {
	f.record("DeleteClan")
	return clanservice.ClanIDResult{}, nil
}

func (f *FakeService) UpdateClanAvatar(context.Context, int64, *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanAvatar")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) UpdateClanDescription(context.Context, int64, *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanDescription")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) UpdateClanTag(context.Context, int64, *string) (clanservice.ClanResult, error) {
	f.record("UpdateClanTag")
	return clanservice.ClanResult{}, nil
}

func (f *FakeService) UpdateClanName(context.Context, int64, string, bool) (clanservice.ClanResult, error) {
	f.record("UpdateClanName")
	return clanservice.ClanResult{}, nil
}

// FakeReplier collects replies.
type FakeReplier struct {
	mu      sync.Mutex
	replies []AdminReply

	ReplyFunc func(ctx context.Context, reply AdminReply) error
}

func (f *FakeReplier) Reply(ctx context.Context, reply AdminReply) error {
	f.mu.Lock()
	f.replies = append(f.replies, reply)
	f.mu.Unlock()
	if f.ReplyFunc != nil {
		return f.ReplyFunc(ctx, reply)
	}
	return nil
}

func (f *FakeReplier) Replies() []AdminReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AdminReply(nil), f.replies...)
}

func failed(code clandomain.Code) clanservice.ClanIDResult {
	f := clandomain.NewFailure(code)
	return clanservice.ClanIDResult{Failure: &f}
}

var (
	_ clanservice.Service = (*FakeService)(nil)
	_ Replier             = (*FakeReplier)(nil)
)
