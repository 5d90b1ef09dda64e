package clanqueue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const (
	serviceName = "clan_queue"
	queueName   = "clan_admin"
)

// Dispatcher runs admin deletions off the command stream.
type Dispatcher interface {
	// DispatchAdminDelete hands the job off and returns without waiting for it.
	DispatchAdminDelete(ctx context.Context, job AdminDeleteJob) error
	// Start starts the dispatcher
	Start(ctx context.Context) error
	// Stop waits for in-flight jobs and stops the dispatcher
	Stop(ctx context.Context) error
}

var (
	_ Dispatcher = (*RiverService)(nil)
	_ Dispatcher = (*InlineService)(nil)
)

// AdminDeleteWorker executes AdminDeleteJob on River.
type AdminDeleteWorker struct {
	river.WorkerDefaults[AdminDeleteJob]
	executor *Executor
}

// NewAdminDeleteWorker creates the River worker for admin deletions.
func NewAdminDeleteWorker(executor *Executor) *AdminDeleteWorker {
	return &AdminDeleteWorker{executor: executor}
}

func (w *AdminDeleteWorker) Work(ctx context.Context, job *river.Job[AdminDeleteJob]) error {
	return w.executor.Execute(ctx, job.Args)
}

// RiverService dispatches admin deletions as durable River jobs.
type RiverService struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewRiverService creates a River-backed dispatcher over its own pgx pool.
func NewRiverService(ctx context.Context, dsn string, maxWorkers int, executor *Executor, logger *slog.Logger, metrics observability.OperationMetrics) (*RiverService, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_clan_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", observability.ErrorAttr(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAdminDeleteWorker(executor))

	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			queueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("Clan queue service initialized")

	return &RiverService{client: client, pool: pool, logger: ctxLogger, metrics: metrics}, nil
}

func (s *RiverService) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Clan queue service started")
	return nil
}

func (s *RiverService) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Clan queue service stopped")
	return nil
}

func (s *RiverService) DispatchAdminDelete(ctx context.Context, job AdminDeleteJob) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "dispatch_admin_delete", serviceName)

	inserted, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue:       queueName,
		MaxAttempts: 1,
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "dispatch_admin_delete", serviceName)
		return fmt.Errorf("failed to enqueue admin delete job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "dispatch_admin_delete", serviceName)
	s.metrics.RecordOperationDuration(ctx, "dispatch_admin_delete", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Admin delete job enqueued",
		slog.Int64("clan_id", job.ClanID),
		slog.Int64("job_id", inserted.Job.ID),
	)
	return nil
}

// InlineService runs admin deletions on background goroutines.
type InlineService struct {
	executor *Executor
	logger   *slog.Logger
	metrics  observability.OperationMetrics

	mu      sync.Mutex
	wg      sync.WaitGroup
	base    context.Context
	cancel  context.CancelFunc
	stopped bool
}

// NewInlineService creates an in-process dispatcher.
func NewInlineService(executor *Executor, logger *slog.Logger, metrics observability.OperationMetrics) *InlineService {
	base, cancel := context.WithCancel(context.Background())
	return &InlineService{executor: executor, logger: logger, metrics: metrics, base: base, cancel: cancel}
}

func (s *InlineService) Start(context.Context) error { return nil }

func (s *InlineService) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func (s *InlineService) DispatchAdminDelete(ctx context.Context, job AdminDeleteJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("clan queue is stopped")
	}

	s.metrics.RecordOperationAttempt(ctx, "dispatch_admin_delete", serviceName)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()
		if err := s.executor.Execute(s.base, job); err != nil {
			s.metrics.RecordOperationFailure(s.base, "dispatch_admin_delete", serviceName)
			s.logger.Error("Admin delete job failed",
				slog.Int64("clan_id", job.ClanID),
				observability.ErrorAttr(err),
			)
			return
		}
		s.metrics.RecordOperationSuccess(s.base, "dispatch_admin_delete", serviceName)
		s.metrics.RecordOperationDuration(s.base, "dispatch_admin_delete", serviceName, time.Since(start))
	}()
	return nil
}
