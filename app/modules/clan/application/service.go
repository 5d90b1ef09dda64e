package clanservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/db/bundb"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/Black-And-White-Club/clan-service/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrCancelledAfterCommit is returned when the transaction committed but the
// caller's context was cancelled by the time the operation returned. The
// change is persisted.
var ErrCancelledAfterCommit = errors.New("operation committed after cancellation")

// ClanService implements the Service interface.
type ClanService struct {
	telemetry
	repo  clandb.Repository
	users userdb.Repository
	db    *bun.DB
	now   func() time.Time
}

// NewClanService creates a new ClanService.
func NewClanService(
	repo clandb.Repository,
	users userdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ClanService {
	return &ClanService{
		telemetry: newTelemetry("ClanService", logger, metrics, tracer),
		repo:      repo,
		users:     users,
		db:        db,
		now:       time.Now,
	}
}

// timestamp returns the current time at database precision.
func (s *ClanService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func failure[S any](code clandomain.Code) results.OperationResult[S, *clandomain.Failure] {
	return results.FailureResult[S](clandomain.NewFailure(code))
}

func failWith[S any](f *clandomain.Failure) results.OperationResult[S, *clandomain.Failure] {
	return results.FailureResult[S](f)
}

func success[S any](s S) results.OperationResult[S, *clandomain.Failure] {
	return results.SuccessResult[S, *clandomain.Failure](s)
}

// recoverConflict maps unique violations raised by a rolled back transaction
// onto their taxonomy codes.
func recoverConflict[S any](result results.OperationResult[S, *clandomain.Failure], err error) (results.OperationResult[S, *clandomain.Failure], error) {
	constraint, ok := bundb.UniqueViolation(err)
	if !ok {
		return result, err
	}
	switch constraint {
	case clandb.ConstraintClanName:
		return failure[S](clandomain.CodeClanNameAlreadyTaken), nil
	case clandb.ConstraintMemberUser, clandb.ConstraintMemberClanUser:
		return failure[S](clandomain.CodeUserAlreadyInClan), nil
	}
	return result, err
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type telemetry struct {
	service string
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
}

func newTelemetry(service string, logger *slog.Logger, metrics observability.OperationMetrics, tracer trace.Tracer) telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return telemetry{service: service, logger: logger, metrics: metrics, tracer: tracer}
}

func (t telemetry) startSpan(ctx context.Context, operationName, identifier string) (context.Context, trace.Span) {
	if t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("identifier", identifier),
	))
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	t telemetry,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := t.startSpan(ctx, operationName, identifier)
	defer span.End()

	t.metrics.RecordOperationAttempt(ctx, operationName, t.service)

	startTime := time.Now()
	defer func() {
		t.metrics.RecordOperationDuration(ctx, operationName, t.service, time.Since(startTime))
	}()

	t.logger.InfoContext(ctx, "Operation triggered",
		observability.CorrelationAttr(ctx),
		slog.String("operation", operationName),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			t.logger.ErrorContext(ctx, "Critical panic recovered",
				observability.CorrelationAttr(ctx),
				slog.String("identifier", identifier),
				observability.ErrorAttr(err),
			)
			t.metrics.RecordOperationFailure(ctx, operationName, t.service)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		t.logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			observability.ErrorAttr(wrappedErr),
		)
		t.metrics.RecordOperationFailure(ctx, operationName, t.service)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		t.logger.WarnContext(ctx, "Operation returned failure result",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		t.logger.InfoContext(ctx, "Operation completed successfully",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	t.metrics.RecordOperationSuccess(ctx, operationName, t.service)

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ClanService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	var result results.OperationResult[S, F]
	var err error

	if s.db == nil {
		result, err = fn(ctx, nil)
	} else {
		err = s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
			var txErr error
			result, txErr = fn(ctx, tx)
			if txErr == nil && result.IsFailure() {
				// domain failures never commit
				return errRollback
			}
			return txErr
		})
		if errors.Is(err, errRollback) {
			err = nil
		}
	}

	if err == nil && result.IsSuccess() && ctx.Err() != nil {
		return result, fmt.Errorf("%w: %w", ErrCancelledAfterCommit, ctx.Err())
	}
	return result, err
}

var errRollback = errors.New("rollback")
