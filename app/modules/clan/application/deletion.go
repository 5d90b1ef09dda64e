package clanservice

import (
	"context"
	"errors"
	"fmt"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// DeleteClan deletes the clan the actor created, releasing every member.
func (s *ClanService) DeleteClan(ctx context.Context, actorID int64, actorIsRestricted bool) (ClanIDResult, error) {
	return withTelemetry(s.telemetry, ctx, "DeleteClan", idString(actorID), func(ctx context.Context) (ClanIDResult, error) {
		if actorIsRestricted {
			return failure[int64](clandomain.CodeCannotDeleteClanAsRestrictedUser), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanIDResult, error) {
			clan, fail, err := s.resolveCreatorClan(ctx, db, actorID)
			if err != nil {
				return ClanIDResult{}, err
			}
			if fail != nil {
				return failWith[int64](fail), nil
			}
			return s.cascadeDelete(ctx, db, clan.ID)
		})
	})
}

// DeleteClanByAdmin deletes a clan by id without checking who asked.
func (s *ClanService) DeleteClanByAdmin(ctx context.Context, clanID int64) (ClanIDResult, error) {
	return withTelemetry(s.telemetry, ctx, "DeleteClanByAdmin", idString(clanID), func(ctx context.Context) (ClanIDResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanIDResult, error) {
			if _, err := s.repo.GetClanForUpdate(ctx, db, clanID); err != nil {
				if errors.Is(err, clandb.ErrNotFound) {
					return failure[int64](clandomain.CodeClanNotFound), nil
				}
				return ClanIDResult{}, err
			}
			return s.cascadeDelete(ctx, db, clanID)
		})
	})
}

// cascadeDelete releases members, drops memberships, then the clan row.
func (s *ClanService) cascadeDelete(ctx context.Context, db bun.IDB, clanID int64) (ClanIDResult, error) {
	released, err := s.users.ClearClanID(ctx, db, clanID)
	if err != nil {
		return ClanIDResult{}, fmt.Errorf("failed to release members: %w", err)
	}

	removed, err := s.repo.DeleteMembersByClanID(ctx, db, clanID)
	if err != nil {
		return ClanIDResult{}, err
	}

	if err := s.repo.DeleteClan(ctx, db, clanID); err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return failure[int64](clandomain.CodeClanNotFound), nil
		}
		return ClanIDResult{}, err
	}

	s.logger.InfoContext(ctx, "Clan deleted",
		"clan_id", clanID,
		"released_users", released,
		"removed_members", removed,
	)
	return success(clanID), nil
}
