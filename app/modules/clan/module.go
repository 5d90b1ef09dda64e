package clan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clanhandlers "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/handlers"
	clanqueue "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/queue"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	clanrouter "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/router"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// PubSub is the admin command stream: commands are consumed from it and
// replies are published back to it.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

// Dependencies are the shared resources the clan module is built from.
type Dependencies struct {
	Config          *config.Config
	Observability   observability.Observability
	Metrics         observability.OperationMetrics
	DB              *bun.DB
	Users           userdb.Repository
	Presence        presence.Store
	Router          *message.Router
	PubSub          PubSub
	HTTP            chi.Router
	RequireIdentity func(http.Handler) http.Handler
}

// Module represents the clan module.
type Module struct {
	ClanService        clanservice.Service
	LeaderboardService clanservice.Leaderboard
	ClanRouter         *clanrouter.ClanRouter
	dispatcher         clanqueue.Dispatcher
	mu                 sync.Mutex
	cancelFunc         context.CancelFunc
	logger             *slog.Logger
}

// NewClanModule creates and initializes a new clan module.
func NewClanModule(ctx context.Context, deps Dependencies) (*Module, error) {
	logger := deps.Observability.Logger
	tracer := deps.Observability.Tracer

	logger.InfoContext(ctx, "clan.NewClanModule initializing")

	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewNoop()
	}

	repo := clandb.NewRepository(deps.DB)

	service := clanservice.NewClanService(repo, deps.Users, logger, metrics, tracer, deps.DB)
	leaderboard := clanservice.NewLeaderboardService(repo, deps.Users, logger, metrics, tracer)

	replier := clanqueue.NewPublisherReplier(deps.PubSub, deps.Config.Admin.ReplyTopic)
	executor := clanqueue.NewExecutor(service, replier, logger)

	dispatcher, err := newDispatcher(ctx, deps.Config, executor, logger, metrics)
	if err != nil {
		return nil, err
	}

	handlers := clanhandlers.NewClanHandlers(service, leaderboard, deps.Presence, logger, tracer)
	adminHandlers := clanhandlers.NewAdminCommandHandlers(
		deps.Users,
		dispatcher,
		replier,
		deps.Config.Admin.CommandPrefix,
		logger,
		tracer,
	)

	clanRouter := clanrouter.NewClanRouter(logger, deps.Router, deps.PubSub)
	if err := clanRouter.Configure(ctx, deps.Config.Admin.CommandTopic, adminHandlers); err != nil {
		return nil, fmt.Errorf("failed to configure clan router: %w", err)
	}
	clanrouter.RegisterRoutes(deps.HTTP, handlers, deps.RequireIdentity)

	return &Module{
		ClanService:        service,
		LeaderboardService: leaderboard,
		ClanRouter:         clanRouter,
		dispatcher:         dispatcher,
		logger:             logger,
	}, nil
}

func newDispatcher(
	ctx context.Context,
	cfg *config.Config,
	executor *clanqueue.Executor,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
) (clanqueue.Dispatcher, error) {
	switch cfg.Queue.Backend {
	case "river":
		dispatcher, err := clanqueue.NewRiverService(ctx, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, executor, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create river queue: %w", err)
		}
		return dispatcher, nil
	case "inline", "":
		return clanqueue.NewInlineService(executor, logger, metrics), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
	}
}

// Run starts the deletion queue and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting clan module")

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.dispatcher.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start clan deletion queue", observability.ErrorAttr(err))
		return
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Clan module goroutine stopped")
}

// Close drains the deletion queue. The shared watermill router is closed by
// its owner.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping clan module")

	err := m.dispatcher.Stop(ctx)

	m.mu.Lock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("Error stopping clan deletion queue", observability.ErrorAttr(err))
		return fmt.Errorf("error stopping clan deletion queue: %w", err)
	}

	m.logger.Info("Clan module stopped")
	return nil
}
