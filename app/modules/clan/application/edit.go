package clanservice

import (
	"context"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// UpdateClanAvatar sets or clears the avatar of the actor's clan.
func (s *ClanService) UpdateClanAvatar(ctx context.Context, actorID int64, avatarURL *string) (ClanResult, error) {
	avatarURL = clandomain.NormalizeOptionalText(avatarURL)
	return s.editClan(ctx, "UpdateClanAvatar", actorID, func(ctx context.Context, db bun.IDB, clan *clandb.Clan) (*clandomain.Failure, error) {
		if err := s.repo.UpdateClanAvatar(ctx, db, clan.ID, avatarURL); err != nil {
			return nil, err
		}
		clan.AvatarURL = avatarURL
		return nil, nil
	})
}

// UpdateClanDescription sets or clears the description of the actor's clan.
func (s *ClanService) UpdateClanDescription(ctx context.Context, actorID int64, description *string) (ClanResult, error) {
	description = clandomain.NormalizeOptionalText(description)
	return s.editClan(ctx, "UpdateClanDescription", actorID, func(ctx context.Context, db bun.IDB, clan *clandb.Clan) (*clandomain.Failure, error) {
		if err := s.repo.UpdateClanDescription(ctx, db, clan.ID, description); err != nil {
			return nil, err
		}
		clan.Description = description
		return nil, nil
	})
}

// UpdateClanTag sets or clears the tag of the actor's clan. Empty clears it.
func (s *ClanService) UpdateClanTag(ctx context.Context, actorID int64, tag *string) (ClanResult, error) {
	return s.editClan(ctx, "UpdateClanTag", actorID, func(ctx context.Context, db bun.IDB, clan *clandb.Clan) (*clandomain.Failure, error) {
		normalized, ok := clandomain.NormalizeTag(tag)
		if !ok {
			return clandomain.NewFailure(clandomain.CodeInvalidClanTag), nil
		}
		if err := s.repo.UpdateClanTag(ctx, db, clan.ID, normalized); err != nil {
			return nil, err
		}
		clan.Tag = normalized
		return nil, nil
	})
}

// UpdateClanName renames the actor's clan subject to the rename cooldown.
// Supporters wait 30 days between renames, everyone else 36,500.
func (s *ClanService) UpdateClanName(ctx context.Context, actorID int64, name string, hasSupporter bool) (ClanResult, error) {
	return withTelemetry(s.telemetry, ctx, "UpdateClanName", idString(actorID), func(ctx context.Context) (ClanResult, error) {
		name, err := clandomain.NormalizeName(name)
		if err != nil {
			return ClanResult{}, err
		}

		return recoverConflict[*clandomain.Clan](runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanResult, error) {
			clan, fail, err := s.resolveCreatorClan(ctx, db, actorID)
			if err != nil {
				return ClanResult{}, err
			}
			if fail != nil {
				return failWith[*clandomain.Clan](fail), nil
			}

			if clan.Name == name {
				unchanged := clan.ToDomain()
				return success(&unchanged), nil
			}

			taken, err := s.repo.ClanNameExists(ctx, db, name, clan.ID)
			if err != nil {
				return ClanResult{}, err
			}
			if taken {
				return failure[*clandomain.Clan](clandomain.CodeClanNameAlreadyTaken), nil
			}

			now := s.timestamp()
			next := clan.ToDomain().NextNameChangeAt(hasSupporter)
			if next.After(now) {
				return failWith[*clandomain.Clan](&clandomain.Failure{
					Code:         clandomain.CodeNameChangeOnCooldown,
					NextChangeAt: &next,
				}), nil
			}

			if err := s.repo.UpdateClanName(ctx, db, clan.ID, name, now); err != nil {
				return ClanResult{}, err
			}
			clan.Name = name
			clan.NameChangedAt = &now

			renamed := clan.ToDomain()
			return success(&renamed), nil
		}))
	})
}

type editFunc func(ctx context.Context, db bun.IDB, clan *clandb.Clan) (*clandomain.Failure, error)

// editClan resolves the actor's clan as creator and applies a single-field edit.
func (s *ClanService) editClan(ctx context.Context, operationName string, actorID int64, edit editFunc) (ClanResult, error) {
	return withTelemetry(s.telemetry, ctx, operationName, idString(actorID), func(ctx context.Context) (ClanResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClanResult, error) {
			clan, fail, err := s.resolveCreatorClan(ctx, db, actorID)
			if err != nil {
				return ClanResult{}, err
			}
			if fail != nil {
				return failWith[*clandomain.Clan](fail), nil
			}

			fail, err = edit(ctx, db, clan)
			if err != nil {
				return ClanResult{}, err
			}
			if fail != nil {
				return failWith[*clandomain.Clan](fail), nil
			}

			edited := clan.ToDomain()
			return success(&edited), nil
		})
	})
}
