package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/Black-And-White-Club/clan-service/db/bundb"
	"github.com/Black-And-White-Club/clan-service/integration_tests/containers"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
)

// TestEnvironment holds all resources needed for integration testing.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	DB            *bun.DB
	DSN           string
	Config        *config.Config
}

// NewTestEnvironment starts Postgres, connects to it and applies migrations.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	cfg := &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn, Driver: "pg"},
		HTTP:     config.HTTPConfig{Address: ":0", RateLimit: 1000, RateBurst: 1000},
		JWT:      config.JWTConfig{Secret: "integration-secret"},
		Redis:    config.RedisConfig{PresenceTTL: 5 * time.Minute},
		Admin: config.AdminConfig{
			CommandPrefix: "!",
			CommandTopic:  "clan.admin.commands",
			ReplyTopic:    "clan.admin.replies",
		},
		Queue: config.QueueConfig{Backend: "inline", MaxWorkers: 2},
	}

	db, err := bundb.Open(ctx, cfg.Postgres, nil)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(ctx, db, dsn); err != nil {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, err
	}

	return &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		PgContainer:   pgContainer,
		DB:            db,
		DSN:           dsn,
		Config:        cfg,
	}, nil
}

// Observability returns a quiet logger and a noop tracer for the services under test.
func (env *TestEnvironment) Observability() observability.Observability {
	return observability.Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:   noop.NewTracerProvider().Tracer("integration"),
		Registry: prometheus.NewRegistry(),
	}
}

// Reset truncates all data so the next test starts clean.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if err := CleanupDatabase(env.Ctx, env.DB); err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}
}

// Cleanup releases the database and the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(context.Background())
	}
	env.CancelContext()
}
