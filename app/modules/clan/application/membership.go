package clanservice

import (
	"context"
	"errors"
	"fmt"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// CreateClan creates a clan with the caller as its creator. name must already
// satisfy clandomain.NormalizeName; an invalid name is a caller bug and is
// returned as an error.
func (s *ClanService) CreateClan(ctx context.Context, name string, avatarURL *string, creator userdomain.Identity) (ClanResult, error) {
	return withTelemetry(s.telemetry, ctx, "CreateClan", idString(creator.UserID), func(ctx context.Context) (ClanResult, error) {
		return recoverConflict[*clandomain.Clan](runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanResult, error) {
			return s.createClanLogic(ctx, db, name, avatarURL, creator)
		}))
	})
}

func (s *ClanService) createClanLogic(ctx context.Context, db bun.IDB, name string, avatarURL *string, creator userdomain.Identity) (ClanResult, error) {
	name, err := clandomain.NormalizeName(name)
	if err != nil {
		return ClanResult{}, err
	}
	if creator.ClanID != nil {
		return failure[*clandomain.Clan](clandomain.CodeUserAlreadyInClan), nil
	}

	user, err := s.users.GetUserForUpdate(ctx, db, creator.UserID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return failure[*clandomain.Clan](clandomain.CodeUserNotFound), nil
		}
		return ClanResult{}, fmt.Errorf("failed to load creator: %w", err)
	}
	if user.ClanID != nil {
		return failure[*clandomain.Clan](clandomain.CodeUserAlreadyInClan), nil
	}

	taken, err := s.repo.ClanNameExists(ctx, db, name, 0)
	if err != nil {
		return ClanResult{}, err
	}
	if taken {
		return failure[*clandomain.Clan](clandomain.CodeClanNameAlreadyTaken), nil
	}

	now := s.timestamp()
	clan := &clandb.Clan{
		Name:      name,
		AvatarURL: clandomain.NormalizeOptionalText(avatarURL),
		CreatedAt: now,
	}
	if err := s.repo.InsertClan(ctx, db, clan); err != nil {
		return ClanResult{}, err
	}

	if err := s.users.SetClanID(ctx, db, user.ID, &clan.ID); err != nil {
		return ClanResult{}, fmt.Errorf("failed to link creator: %w", err)
	}

	if err := s.repo.InsertMember(ctx, db, &clandb.Member{
		ClanID:   clan.ID,
		UserID:   user.ID,
		Role:     clandomain.RoleCreator,
		JoinedAt: now,
	}); err != nil {
		return ClanResult{}, err
	}

	created := clan.ToDomain()
	return success(&created), nil
}

// JoinClan adds the user to the clan as a member.
func (s *ClanService) JoinClan(ctx context.Context, clanID, userID int64) (ClanResult, error) {
	return withTelemetry(s.telemetry, ctx, "JoinClan", idString(userID), func(ctx context.Context) (ClanResult, error) {
		return recoverConflict[*clandomain.Clan](runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanResult, error) {
			return s.joinClanLogic(ctx, db, clanID, userID)
		}))
	})
}

func (s *ClanService) joinClanLogic(ctx context.Context, db bun.IDB, clanID, userID int64) (ClanResult, error) {
	clan, err := s.repo.GetClanForShare(ctx, db, clanID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return failure[*clandomain.Clan](clandomain.CodeClanNotFound), nil
		}
		return ClanResult{}, err
	}

	user, err := s.users.GetUserForUpdate(ctx, db, userID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return failure[*clandomain.Clan](clandomain.CodeUserNotFound), nil
		}
		return ClanResult{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.ClanID != nil {
		return failure[*clandomain.Clan](clandomain.CodeUserAlreadyInClan), nil
	}

	if err := s.users.SetClanID(ctx, db, user.ID, &clan.ID); err != nil {
		return ClanResult{}, fmt.Errorf("failed to link member: %w", err)
	}
	if err := s.repo.InsertMember(ctx, db, &clandb.Member{
		ClanID:   clan.ID,
		UserID:   user.ID,
		Role:     clandomain.RoleMember,
		JoinedAt: s.timestamp(),
	}); err != nil {
		return ClanResult{}, err
	}

	joined := clan.ToDomain()
	return success(&joined), nil
}

// LeaveClan removes a non-creator from their clan.
func (s *ClanService) LeaveClan(ctx context.Context, userID int64) (ClanIDResult, error) {
	return withTelemetry(s.telemetry, ctx, "LeaveClan", idString(userID), func(ctx context.Context) (ClanIDResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanIDResult, error) {
			return s.leaveClanLogic(ctx, db, userID)
		})
	})
}

func (s *ClanService) leaveClanLogic(ctx context.Context, db bun.IDB, userID int64) (ClanIDResult, error) {
	user, err := s.users.GetUserForUpdate(ctx, db, userID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return failure[int64](clandomain.CodeUserNotFound), nil
		}
		return ClanIDResult{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.ClanID == nil {
		return failure[int64](clandomain.CodeUserNotInClan), nil
	}

	clan, err := s.repo.GetClanByID(ctx, db, *user.ClanID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return failure[int64](clandomain.CodeClanNotFound), nil
		}
		return ClanIDResult{}, err
	}

	member, err := s.repo.GetMemberByUserID(ctx, db, user.ID)
	if err != nil {
		if errors.Is(err, clandb.ErrMemberNotFound) {
			return failure[int64](clandomain.CodeUserNotInClan), nil
		}
		return ClanIDResult{}, err
	}
	if member.Role == clandomain.RoleCreator {
		return failure[int64](clandomain.CodeCreatorCannotLeaveClan), nil
	}

	if err := s.repo.DeleteMemberByUserID(ctx, db, user.ID); err != nil {
		return ClanIDResult{}, err
	}
	if err := s.users.SetClanID(ctx, db, user.ID, nil); err != nil {
		return ClanIDResult{}, fmt.Errorf("failed to unlink member: %w", err)
	}

	return success(clan.ID), nil
}

// KickClanMember removes target from the actor's clan. Only the creator may kick.
func (s *ClanService) KickClanMember(ctx context.Context, actorID, targetID int64) (ClanResult, error) {
	return withTelemetry(s.telemetry, ctx, "KickClanMember", idString(targetID), func(ctx context.Context) (ClanResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanResult, error) {
			return s.kickClanMemberLogic(ctx, db, actorID, targetID)
		})
	})
}

func (s *ClanService) kickClanMemberLogic(ctx context.Context, db bun.IDB, actorID, targetID int64) (ClanResult, error) {
	clan, fail, err := s.resolveCreatorClan(ctx, db, actorID)
	if err != nil {
		return ClanResult{}, err
	}
	if fail != nil {
		return failWith[*clandomain.Clan](fail), nil
	}

	if targetID == actorID {
		return failure[*clandomain.Clan](clandomain.CodeCannotKickSelf), nil
	}

	target, err := s.users.GetUserForUpdate(ctx, db, targetID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return failure[*clandomain.Clan](clandomain.CodeUserNotFound), nil
		}
		return ClanResult{}, fmt.Errorf("failed to load target: %w", err)
	}
	if target.ClanID == nil || *target.ClanID != clan.ID {
		return failure[*clandomain.Clan](clandomain.CodeClanMemberNotFound), nil
	}

	member, err := s.repo.GetMemberByUserID(ctx, db, target.ID)
	if err != nil {
		if errors.Is(err, clandb.ErrMemberNotFound) {
			return failure[*clandomain.Clan](clandomain.CodeClanMemberNotFound), nil
		}
		return ClanResult{}, err
	}
	if member.Role == clandomain.RoleCreator {
		return failure[*clandomain.Clan](clandomain.CodeClanCreatorCannotBeKicked), nil
	}

	if err := s.repo.DeleteMemberByUserID(ctx, db, target.ID); err != nil {
		return ClanResult{}, err
	}
	if err := s.users.SetClanID(ctx, db, target.ID, nil); err != nil {
		return ClanResult{}, fmt.Errorf("failed to unlink target: %w", err)
	}

	kept := clan.ToDomain()
	return success(&kept), nil
}

// resolveCreatorClan loads and locks the clan the actor created. A non-nil
// failure means the actor is missing, clanless or not the creator.
func (s *ClanService) resolveCreatorClan(ctx context.Context, db bun.IDB, actorID int64) (*clandb.Clan, *clandomain.Failure, error) {
	actor, err := s.users.GetUserByID(ctx, db, actorID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, clandomain.NewFailure(clandomain.CodeUserNotFound), nil
		}
		return nil, nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if actor.ClanID == nil {
		return nil, clandomain.NewFailure(clandomain.CodeUserNotInClan), nil
	}

	clan, err := s.repo.GetClanForUpdate(ctx, db, *actor.ClanID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return nil, clandomain.NewFailure(clandomain.CodeClanNotFound), nil
		}
		return nil, nil, err
	}

	member, err := s.repo.GetMemberByUserID(ctx, db, actor.ID)
	if err != nil && !errors.Is(err, clandb.ErrMemberNotFound) {
		return nil, nil, err
	}
	if member == nil || member.ClanID != clan.ID || member.Role != clandomain.RoleCreator {
		return nil, clandomain.NewFailure(clandomain.CodeUserIsNotClanCreator), nil
	}

	return clan, nil, nil
}
