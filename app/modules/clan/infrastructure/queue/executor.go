package clanqueue

import (
	"context"
	"fmt"
	"log/slog"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
)

// Replier delivers admin command replies.
type Replier interface {
	Reply(ctx context.Context, reply AdminReply) error
}

// Executor runs admin deletions and reports the outcome to the caller.
type Executor struct {
	service clanservice.Service
	replier Replier
	logger  *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(service clanservice.Service, replier Replier, logger *slog.Logger) *Executor {
	return &Executor{service: service, replier: replier, logger: logger}
}

// Execute deletes the clan named by job and replies with the outcome. Storage
// errors are reported to the caller rather than retried.
func (e *Executor) Execute(ctx context.Context, job AdminDeleteJob) error {
	ctx = observability.WithCorrelationID(ctx, job.CorrelationID)

	result, err := e.service.DeleteClanByAdmin(ctx, job.ClanID)
	text := DeleteReplyText(job.ClanID, result, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "Admin clan deletion failed",
			slog.Int64("clan_id", job.ClanID),
			slog.Int64("caller_id", job.CallerID),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
	}

	if err := e.replier.Reply(ctx, AdminReply{
		CallerID:      job.CallerID,
		Text:          text,
		CorrelationID: job.CorrelationID,
	}); err != nil {
		return fmt.Errorf("failed to send admin reply: %w", err)
	}
	return nil
}

// DeleteReplyText renders the reply for an admin deletion outcome.
func DeleteReplyText(clanID int64, result clanservice.ClanIDResult, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("Failed to delete clan %d. Unexpected result: %s", clanID, clandomain.CodeUnknownError)
	case result.IsSuccess():
		return fmt.Sprintf("Clan %d has been deleted.", clanID)
	case result.IsFailure() && (*result.Failure).Code == clandomain.CodeClanNotFound:
		return fmt.Sprintf("Clan %d not found.", clanID)
	case result.IsFailure():
		return fmt.Sprintf("Failed to delete clan %d. Unexpected result: %s", clanID, (*result.Failure).Code)
	default:
		return fmt.Sprintf("Failed to delete clan %d. Unexpected result: %s", clanID, clandomain.CodeUnknownError)
	}
}
