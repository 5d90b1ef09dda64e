package auth

import (
	"context"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/clan-service/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/clan-service/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/clan-service/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module identifies API callers and guards the HTTP surface.
type Module struct {
	config  *config.Config
	service authservice.Service
	limiter *authhandlers.IPRateLimiter
	logger  *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	userRepo userdb.Repository,
	presenceStore presence.Store,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing auth module")

	service := authservice.NewService(
		authjwt.NewProvider(cfg.JWT.Secret),
		userRepo,
		presenceStore,
		logger,
		obs.Tracer,
	)

	return &Module{
		config:  cfg,
		service: service,
		limiter: authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		logger:  logger,
	}
}

// Mount installs the request-wide middleware on r: correlation ids, CORS and
// per-IP rate limiting.
func (m *Module) Mount(r chi.Router) {
	r.Use(authhandlers.CorrelationMiddleware)
	r.Use(authhandlers.CORSMiddleware(m.config.HTTP.AllowedOrigins))
	r.Use(authhandlers.RateLimitMiddleware(m.limiter))
}

// RequireIdentity returns the middleware guarding authenticated routes.
func (m *Module) RequireIdentity() func(http.Handler) http.Handler {
	return authhandlers.RequireIdentity(m.service, m.logger)
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
