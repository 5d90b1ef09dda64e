package clanhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandto "github.com/Black-And-White-Club/clan-service/app/modules/clan/dto"
	clanqueue "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/queue"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const deleteClanCommand = "deleteclan"

// UserReader loads the caller of an admin command.
type UserReader interface {
	GetUserByID(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error)
}

// AdminCommandHandlers implements AdminHandlers.
type AdminCommandHandlers struct {
	users      UserReader
	dispatcher clanqueue.Dispatcher
	replier    clanqueue.Replier
	prefix     string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewAdminCommandHandlers creates the admin command handler.
func NewAdminCommandHandlers(
	users UserReader,
	dispatcher clanqueue.Dispatcher,
	replier clanqueue.Replier,
	prefix string,
	logger *slog.Logger,
	tracer trace.Tracer,
) AdminHandlers {
	return &AdminCommandHandlers{
		users:      users,
		dispatcher: dispatcher,
		replier:    replier,
		prefix:     prefix,
		logger:     logger,
		tracer:     tracer,
	}
}

// HandleAdminCommand parses "<prefix>deleteclan <clanId>" and hands the
// deletion to the dispatcher. Other commands are acknowledged and ignored.
func (h *AdminCommandHandlers) HandleAdminCommand(msg *message.Message) error {
	ctx := observability.WithCorrelationID(msg.Context(), msg.UUID)
	ctx, span := h.tracer.Start(ctx, "AdminCommandHandlers.HandleAdminCommand")
	defer span.End()

	var cmd clandto.AdminCommand
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unmarshal admin command",
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
		return nil
	}

	name, args, ok := h.parse(cmd.Text)
	if !ok || name != deleteClanCommand {
		return nil
	}

	h.logger.InfoContext(ctx, "Admin command received",
		slog.String("command", name),
		slog.Int64("caller_id", cmd.CallerID),
		observability.CorrelationAttr(ctx),
	)

	allowed, err := h.isAdmin(ctx, cmd.CallerID)
	if err != nil {
		return fmt.Errorf("failed to load command caller: %w", err)
	}
	if !allowed {
		return h.reply(ctx, cmd.CallerID, "You don't have enough privileges to use this command.")
	}

	if len(args) < 1 {
		return h.reply(ctx, cmd.CallerID, fmt.Sprintf(
			"Usage: %[1]s%[2]s <clanId>; Example: %[1]s%[2]s 1", h.prefix, deleteClanCommand))
	}

	clanID, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil || clanID < 1 {
		return h.reply(ctx, cmd.CallerID, "Invalid clan id.")
	}

	job := clanqueue.AdminDeleteJob{
		ClanID:        clanID,
		CallerID:      cmd.CallerID,
		CorrelationID: msg.UUID,
	}
	if err := h.dispatcher.DispatchAdminDelete(ctx, job); err != nil {
		h.logger.ErrorContext(ctx, "Failed to dispatch admin clan deletion",
			slog.Int64("clan_id", clanID),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
		return h.reply(ctx, cmd.CallerID, fmt.Sprintf(
			"Failed to delete clan %d. Unexpected result: %s", clanID, clandomain.CodeUnknownError))
	}
	return nil
}

// parse splits a prefixed command into its lowercase name and arguments.
func (h *AdminCommandHandlers) parse(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, h.prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, h.prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (h *AdminCommandHandlers) isAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := h.users.GetUserByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Privilege.AtLeast(userdomain.PrivilegeAdmin), nil
}

func (h *AdminCommandHandlers) reply(ctx context.Context, callerID int64, text string) error {
	return h.replier.Reply(ctx, clanqueue.AdminReply{
		CallerID:      callerID,
		Text:          text,
		CorrelationID: observability.CorrelationID(ctx),
	})
}
