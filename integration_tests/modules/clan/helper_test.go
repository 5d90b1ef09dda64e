package clan_test

import (
	"context"
	"testing"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/integration_tests/testutils"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/stretchr/testify/require"
)

type serviceDeps struct {
	service     *clanservice.ClanService
	leaderboard *clanservice.LeaderboardService
	users       userdb.Repository
	gen         *testutils.TestDataGenerator
}

func setupServices(t *testing.T) serviceDeps {
	t.Helper()
	testEnv.Reset(t)

	obs := testEnv.Observability()
	repo := clandb.NewRepository(testEnv.DB)
	users := userdb.NewRepository(testEnv.DB)

	return serviceDeps{
		service:     clanservice.NewClanService(repo, users, obs.Logger, observability.NewNoop(), obs.Tracer, testEnv.DB),
		leaderboard: clanservice.NewLeaderboardService(repo, users, obs.Logger, observability.NewNoop(), obs.Tracer),
		users:       users,
		gen:         testutils.NewTestDataGenerator(42),
	}
}

func (d serviceDeps) user(t *testing.T, pp float64, opts ...testutils.UserOption) *userdb.User {
	t.Helper()
	u, err := d.gen.InsertUser(context.Background(), testEnv.DB, pp, opts...)
	require.NoError(t, err)
	return u
}

// identity reloads the caller the way the auth middleware does.
func (d serviceDeps) identity(t *testing.T, userID int64) userdomain.Identity {
	t.Helper()
	u, err := d.users.GetUserByID(context.Background(), nil, userID)
	require.NoError(t, err)
	return u.Identity()
}

func (d serviceDeps) createClan(t *testing.T, name string, creatorID int64) *clandomain.Clan {
	t.Helper()
	res, err := d.service.CreateClan(context.Background(), name, nil, d.identity(t, creatorID))
	require.NoError(t, err)
	require.Nil(t, res.Failure, "create %q failed", name)
	return *res.Success
}

func (d serviceDeps) join(t *testing.T, clanID, userID int64) {
	t.Helper()
	res, err := d.service.JoinClan(context.Background(), clanID, userID)
	require.NoError(t, err)
	require.Nil(t, res.Failure)
}

// codeOf returns the failure code of a result, failing the test on success.
func codeOf(t *testing.T, failure **clandomain.Failure) clandomain.Code {
	t.Helper()
	require.NotNil(t, failure, "expected a failure result")
	return (*failure).Code
}
