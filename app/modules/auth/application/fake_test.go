package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/clan-service/app/modules/auth/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	trace []string

	GenerateTokenFunc func(userID int64, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)
}

func (f *FakeJWTProvider) Trace() []string {
	return f.trace
}

func (f *FakeJWTProvider) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeJWTProvider) GenerateToken(userID int64, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(userID, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// ------------------------
// Fake User Repo
// ------------------------

type FakeUserRepository struct {
	trace []string

	GetUserByIDFunc func(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error)
}

func (f *FakeUserRepository) Trace() []string {
	return f.trace
}

func (f *FakeUserRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeUserRepository) GetUserByID(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error) {
	f.record("GetUserByID")
	if f.GetUserByIDFunc != nil {
		return f.GetUserByIDFunc(ctx, db, userID)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepository) GetUserForUpdate(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error) {
	f.record("GetUserForUpdate")
	return f.GetUserByID(ctx, db, userID)
}

func (f *FakeUserRepository) SetClanID(ctx context.Context, db bun.IDB, userID int64, clanID *int64) error {
	f.record("SetClanID")
	return nil
}

func (f *FakeUserRepository) ClearClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error) {
	f.record("ClearClanID")
	return 0, nil
}

// ------------------------
// Fake Presence Store
// ------------------------

type FakePresence struct {
	touched []int64

	TouchFunc func(ctx context.Context, userID int64) error
}

func (f *FakePresence) Touch(ctx context.Context, userID int64) error {
	f.touched = append(f.touched, userID)
	if f.TouchFunc != nil {
		return f.TouchFunc(ctx, userID)
	}
	return nil
}

func (f *FakePresence) Online(ctx context.Context, userIDs []int64) (map[int64]bool, error) {
	return map[int64]bool{}, nil
}
