package authhandlers

import (
	"context"
	"time"

	authservice "github.com/Black-And-White-Club/clan-service/app/modules/auth/application"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
)

// FakeService is a programmable fake for authservice.Service.
type FakeService struct {
	trace []string

	AuthenticateFunc func(ctx context.Context, token string) (userdomain.Identity, error)
	IssueTokenFunc   func(ctx context.Context, userID int64, ttl time.Duration) (string, error)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Authenticate(ctx context.Context, token string) (userdomain.Identity, error) {
	f.record("Authenticate")
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, token)
	}
	return userdomain.Identity{}, authservice.ErrInvalidToken
}

func (f *FakeService) IssueToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	f.record("IssueToken")
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, userID, ttl)
	}
	return "fake-token", nil
}

var _ authservice.Service = (*FakeService)(nil)
