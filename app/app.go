package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/clan-service/app/modules/auth"
	"github.com/Black-And-White-Club/clan-service/app/modules/clan"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/Black-And-White-Club/clan-service/db/bundb"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wmmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 15 * time.Second

// App holds the shared resources and the modules built on top of them.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	Presence      presence.Store
	PubSub        *gochannel.GoChannel
	Router        *message.Router
	HTTP          *chi.Mux
	AuthModule    *auth.Module
	ClanModule    *clan.Module

	server *http.Server
	wg     sync.WaitGroup
}

// Initialize connects to the database and presence store and builds the modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	app.Config = cfg
	obs, err := observability.New(ctx, observability.Config{
		ServiceName:   "clan-service",
		Environment:   cfg.Observability.Environment,
		LogLevel:      cfg.Observability.LogLevel,
		OTLPEndpoint:  cfg.Observability.OTLPEndpoint,
		OTLPTransport: cfg.Observability.OTLPTransport,
		OTLPInsecure:  cfg.Observability.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	app.Observability = obs
	logger := app.Observability.Logger

	logger.InfoContext(ctx, "Initializing application")

	db, err := bundb.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = db

	if err := app.initPresence(ctx); err != nil {
		return err
	}

	if err := app.initMessaging(); err != nil {
		return err
	}

	metrics, err := app.initMetrics()
	if err != nil {
		return err
	}

	users := userdb.NewRepository(db)

	app.HTTP = chi.NewRouter()
	app.HTTP.Use(chimiddleware.Recoverer)

	app.AuthModule = auth.NewModule(ctx, cfg, app.Observability, users, app.Presence)
	app.AuthModule.Mount(app.HTTP)

	if cfg.Observability.MetricsEnabled {
		app.HTTP.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))
	}

	app.ClanModule, err = clan.NewClanModule(ctx, clan.Dependencies{
		Config:          cfg,
		Observability:   app.Observability,
		Metrics:         metrics,
		DB:              db,
		Users:           users,
		Presence:        app.Presence,
		Router:          app.Router,
		PubSub:          app.PubSub,
		HTTP:            app.HTTP,
		RequireIdentity: app.AuthModule.RequireIdentity(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize clan module: %w", err)
	}

	app.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.HTTP,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.InfoContext(ctx, "Application initialized")
	return nil
}

func (app *App) initPresence(ctx context.Context) error {
	if app.Config.Redis.URL == "" {
		app.Observability.Logger.WarnContext(ctx, "Redis URL not configured, presence tracking disabled")
		app.Presence = presence.NoopStore{}
		return nil
	}

	store, err := presence.Connect(ctx, app.Config.Redis.URL, app.Config.Redis.PresenceTTL)
	if err != nil {
		return fmt.Errorf("failed to connect presence store: %w", err)
	}
	app.Presence = store
	return nil
}

func (app *App) initMessaging() error {
	wmLogger := watermill.NewSlogLogger(app.Observability.Logger)

	app.PubSub = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(
		wmmiddleware.CorrelationID,
		wmmiddleware.Recoverer,
	)
	app.Router = router
	return nil
}

func (app *App) initMetrics() (observability.OperationMetrics, error) {
	if !app.Config.Observability.MetricsEnabled {
		return observability.NewNoop(), nil
	}
	metrics, err := observability.NewPrometheusMetrics(app.Observability.Registry, "clan_service")
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return metrics, nil
}

// Run starts the message router, the modules and the HTTP server, and blocks
// until ctx is cancelled or the server fails. Resources are released before
// returning.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		if err := app.Router.Run(runCtx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()
	<-app.Router.Running()

	app.wg.Add(1)
	go app.ClanModule.Run(runCtx, &app.wg)

	go func() {
		logger.InfoContext(runCtx, "HTTP server listening", slog.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", observability.ErrorAttr(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	closeErr := app.Close(shutdownCtx)
	cancel()
	return errors.Join(runErr, closeErr)
}

// Close stops the HTTP server, the message router and the modules, then
// releases the presence store and the database.
func (app *App) Close(ctx context.Context) error {
	logger := app.Observability.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var errs []error

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("message router close: %w", err))
		}
	}

	if app.ClanModule != nil {
		if err := app.ClanModule.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	app.wg.Wait()

	if app.PubSub != nil {
		if err := app.PubSub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pubsub close: %w", err))
		}
	}

	if closer, ok := app.Presence.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("presence close: %w", err))
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Application shutdown finished with errors", observability.ErrorAttr(err))
		return err
	}
	logger.Info("Application shut down gracefully")
	return nil
}
