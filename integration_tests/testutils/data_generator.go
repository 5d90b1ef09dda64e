package testutils

import (
	"context"
	"fmt"
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"
)

// TestDataGenerator creates users with per-mode performance points.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
	next  int
}

// NewTestDataGenerator creates a new test data generator with optional seed.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// UserOption customizes a generated user.
type UserOption func(*userdb.User)

// WithPrivilege sets the user's privilege bits.
func WithPrivilege(p userdomain.Privilege) UserOption {
	return func(u *userdb.User) { u.Privilege = p }
}

// WithStatus sets the account status.
func WithStatus(s userdomain.AccountStatus) UserOption {
	return func(u *userdb.User) { u.AccountStatus = s }
}

// GenerateUser builds an active standard-mode user with a unique username.
func (g *TestDataGenerator) GenerateUser(opts ...UserOption) *userdb.User {
	g.next++
	name := g.faker.Username()
	if len(name) > 24 {
		name = name[:24]
	}

	user := &userdb.User{
		Username:      fmt.Sprintf("%s_%d", name, g.next),
		Privilege:     userdomain.PrivilegeUser,
		AccountStatus: userdomain.AccountStatusActive,
		DefaultMode:   userdomain.GameModeStandard,
	}
	for _, opt := range opts {
		opt(user)
	}
	return user
}

// InsertUser stores the user and a user_stats row for the standard mode. A
// negative pp draws a random value.
func (g *TestDataGenerator) InsertUser(ctx context.Context, db bun.IDB, pp float64, opts ...UserOption) (*userdb.User, error) {
	user := g.GenerateUser(opts...)
	if _, err := db.NewInsert().Model(user).Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	if pp < 0 {
		pp = g.faker.Float64Range(0, 10000)
	}
	stats := &userdb.UserStats{
		UserID:            user.ID,
		GameMode:          userdomain.GameModeStandard,
		PerformancePoints: pp,
	}
	if _, err := db.NewInsert().Model(stats).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert user stats: %w", err)
	}
	return user, nil
}
