package clanservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardService implements the Leaderboard interface. Lookups that find
// nothing return a *clandomain.Failure as the error.
type LeaderboardService struct {
	telemetry
	repo  clandb.Repository
	users userdb.Repository
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo clandb.Repository,
	users userdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *LeaderboardService {
	return &LeaderboardService{
		telemetry: newTelemetry("LeaderboardService", logger, metrics, tracer),
		repo:      repo,
		users:     users,
	}
}

// observe wraps a read with tracing and metrics.
func observe[T any](t telemetry, ctx context.Context, operationName, identifier string, op func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := t.startSpan(ctx, operationName, identifier)
	defer span.End()

	t.metrics.RecordOperationAttempt(ctx, operationName, t.service)
	startTime := time.Now()
	defer func() {
		t.metrics.RecordOperationDuration(ctx, operationName, t.service, time.Since(startTime))
	}()

	value, err := op(ctx)
	if err != nil {
		var fail *clandomain.Failure
		if !errors.As(err, &fail) {
			t.logger.ErrorContext(ctx, "Read failed",
				observability.CorrelationAttr(ctx),
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				observability.ErrorAttr(err),
			)
			span.RecordError(err)
		}
		t.metrics.RecordOperationFailure(ctx, operationName, t.service)
		return value, err
	}

	t.metrics.RecordOperationSuccess(ctx, operationName, t.service)
	return value, nil
}

// GetClanDetails returns the clan with its total pp and member list for mode.
func (s *LeaderboardService) GetClanDetails(ctx context.Context, clanID int64, mode userdomain.GameMode) (*clandomain.ClanDetails, error) {
	return observe(s.telemetry, ctx, "GetClanDetails", idString(clanID), func(ctx context.Context) (*clandomain.ClanDetails, error) {
		return s.clanDetails(ctx, clanID, mode)
	})
}

// GetUserClanDetails returns the details of the clan the user belongs to.
func (s *LeaderboardService) GetUserClanDetails(ctx context.Context, userID int64, mode *userdomain.GameMode) (*clandomain.ClanDetails, error) {
	return observe(s.telemetry, ctx, "GetUserClanDetails", idString(userID), func(ctx context.Context) (*clandomain.ClanDetails, error) {
		user, err := s.users.GetUserByID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return nil, clandomain.NewFailure(clandomain.CodeUserNotFound)
			}
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		if user.ClanID == nil {
			return nil, clandomain.NewFailure(clandomain.CodeClanNotFound)
		}

		resolved := user.DefaultMode
		if mode != nil {
			resolved = *mode
		}
		return s.clanDetails(ctx, *user.ClanID, resolved)
	})
}

func (s *LeaderboardService) clanDetails(ctx context.Context, clanID int64, mode userdomain.GameMode) (*clandomain.ClanDetails, error) {
	clan, err := s.repo.GetClanByID(ctx, nil, clanID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return nil, clandomain.NewFailure(clandomain.CodeClanNotFound)
		}
		return nil, err
	}

	total, err := s.repo.GetClanTotalPP(ctx, nil, clanID, mode)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetClanMembersByPP(ctx, nil, clanID, mode)
	if err != nil {
		return nil, err
	}

	return &clandomain.ClanDetails{
		Clan:    clan.ToDomain(),
		Mode:    mode,
		TotalPP: total,
		Members: memberStandings(rows),
	}, nil
}

// ClanTotalPP sums mode pp over the clan's active members.
func (s *LeaderboardService) ClanTotalPP(ctx context.Context, clanID int64, mode userdomain.GameMode) (float64, error) {
	return observe(s.telemetry, ctx, "ClanTotalPP", idString(clanID), func(ctx context.Context) (float64, error) {
		return s.repo.GetClanTotalPP(ctx, nil, clanID, mode)
	})
}

// ClansByLeaderboard returns one page of clans ordered by total pp DESC, id ASC.
func (s *LeaderboardService) ClansByLeaderboard(ctx context.Context, mode userdomain.GameMode, page clandomain.Pagination) (*LeaderboardPage, error) {
	return observe(s.telemetry, ctx, "ClansByLeaderboard", mode.String(), func(ctx context.Context) (*LeaderboardPage, error) {
		if err := page.Validate(); err != nil {
			return nil, err
		}

		rows, err := s.repo.GetClansByLeaderboard(ctx, nil, mode, page.Limit, page.Offset())
		if err != nil {
			return nil, err
		}
		count, err := s.repo.CountClans(ctx, nil)
		if err != nil {
			return nil, err
		}

		standings := make([]clandomain.ClanStanding, 0, len(rows))
		for i := range rows {
			standings = append(standings, clandomain.ClanStanding{
				Clan:    rows[i].Clan.ToDomain(),
				TotalPP: rows[i].TotalPP,
			})
		}
		return &LeaderboardPage{Clans: standings, TotalCount: count}, nil
	})
}

// ClanMembersByPP lists the clan's members ordered by pp DESC, user id ASC.
func (s *LeaderboardService) ClanMembersByPP(ctx context.Context, clanID int64, mode userdomain.GameMode) ([]clandomain.MemberStanding, error) {
	return observe(s.telemetry, ctx, "ClanMembersByPP", idString(clanID), func(ctx context.Context) ([]clandomain.MemberStanding, error) {
		rows, err := s.repo.GetClanMembersByPP(ctx, nil, clanID, mode)
		if err != nil {
			return nil, err
		}
		return memberStandings(rows), nil
	})
}

// CountClans returns the number of clans.
func (s *LeaderboardService) CountClans(ctx context.Context) (int, error) {
	return observe(s.telemetry, ctx, "CountClans", "", func(ctx context.Context) (int, error) {
		return s.repo.CountClans(ctx, nil)
	})
}

func memberStandings(rows []clandb.MemberStandingRow) []clandomain.MemberStanding {
	out := make([]clandomain.MemberStanding, 0, len(rows))
	for i := range rows {
		out = append(out, clandomain.MemberStanding{
			Member:            rows[i].Member.ToDomain(),
			Username:          rows[i].Username,
			AccountStatus:     rows[i].AccountStatus,
			PerformancePoints: rows[i].PerformancePoints,
		})
	}
	return out
}
