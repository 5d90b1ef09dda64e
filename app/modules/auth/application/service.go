package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authjwt "github.com/Black-And-White-Club/clan-service/app/modules/auth/infrastructure/jwt"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"go.opentelemetry.io/otel/trace"
)

const DefaultTokenTTL = 24 * time.Hour

// service implements the Service interface.
type service struct {
	repo        userdb.Repository
	jwtProvider authjwt.Provider
	presence    presence.Store
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service.
func NewService(
	jwtProvider authjwt.Provider,
	repo userdb.Repository,
	presenceStore presence.Store,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	if presenceStore == nil {
		presenceStore = presence.NoopStore{}
	}
	return &service{
		repo:        repo,
		jwtProvider: jwtProvider,
		presence:    presenceStore,
		logger:      logger,
		tracer:      tracer,
	}
}

// Authenticate resolves a bearer token to the caller's identity.
func (s *service) Authenticate(ctx context.Context, token string) (userdomain.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	if token == "" {
		return userdomain.Identity{}, ErrMissingToken
	}

	claims, err := s.jwtProvider.ValidateToken(token)
	if err != nil {
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return userdomain.Identity{}, ErrExpiredToken
		}
		s.logger.WarnContext(ctx, "Rejected bearer token",
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
		return userdomain.Identity{}, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, nil, claims.UserID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return userdomain.Identity{}, ErrUnknownUser
		}
		span.RecordError(err)
		return userdomain.Identity{}, fmt.Errorf("failed to load caller: %w", err)
	}

	if err := s.presence.Touch(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "Failed to refresh presence",
			observability.CorrelationAttr(ctx),
			slog.Int64("user_id", user.ID),
			observability.ErrorAttr(err),
		)
	}

	return user.Identity(), nil
}

// IssueToken mints a bearer token for userID after checking the user exists.
func (s *service) IssueToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	if _, err := s.repo.GetUserByID(ctx, nil, userID); err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.jwtProvider.GenerateToken(userID, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerateToken, err)
	}

	s.logger.InfoContext(ctx, "Issued bearer token",
		slog.Int64("user_id", userID),
		slog.Duration("ttl", ttl),
	)
	return token, nil
}
