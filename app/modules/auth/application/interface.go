package authservice

import (
	"context"
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
)

// Service identifies API callers from bearer tokens.
type Service interface {
	// Authenticate validates token and loads the caller it names. Every
	// successful call refreshes the caller's presence.
	Authenticate(ctx context.Context, token string) (userdomain.Identity, error)

	// IssueToken mints a bearer token for an existing user.
	IssueToken(ctx context.Context, userID int64, ttl time.Duration) (string, error)
}
