package clanhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandto "github.com/Black-And-White-Club/clan-service/app/modules/clan/dto"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/Black-And-White-Club/clan-service/pkg/problem"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes bounds request bodies; the largest field is an 8192 char avatar url.
const maxBodyBytes = 64 << 10

// ClanHandlers implements the Handlers interface.
type ClanHandlers struct {
	service     clanservice.Service
	leaderboard clanservice.Leaderboard
	presence    presence.Store
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewClanHandlers creates a new ClanHandlers instance.
func NewClanHandlers(
	service clanservice.Service,
	leaderboard clanservice.Leaderboard,
	presenceStore presence.Store,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if presenceStore == nil {
		presenceStore = presence.NoopStore{}
	}
	return &ClanHandlers{
		service:     service,
		leaderboard: leaderboard,
		presence:    presenceStore,
		logger:      logger,
		tracer:      tracer,
	}
}

// caller returns the authenticated identity, writing a 401 when it is absent.
func caller(w http.ResponseWriter, r *http.Request) (userdomain.Identity, bool) {
	identity, ok := userdomain.IdentityFromContext(r.Context())
	if !ok {
		problem.Write(w, http.StatusUnauthorized, "Authentication required.")
		return userdomain.Identity{}, false
	}
	return identity, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, f *clandomain.Failure) {
	problem.Write(w, f.Code.Status(), f.Detail())
}

// writeError maps a read error or a storage fault to a problem response.
func (h *ClanHandlers) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var failure *clandomain.Failure
	if errors.As(err, &failure) {
		writeFailure(w, failure)
		return
	}
	if errors.Is(err, clanservice.ErrCancelledAfterCommit) || errors.Is(err, context.Canceled) {
		h.logger.WarnContext(ctx, "Request cancelled",
			slog.String("operation", op),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
	} else {
		h.logger.ErrorContext(ctx, "Request failed",
			slog.String("operation", op),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
	}
	problem.Write(w, http.StatusInternalServerError, clandomain.CodeUnknownError.Detail())
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// queryMode parses ?mode=, returning nil when absent.
func queryMode(r *http.Request) (*userdomain.GameMode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return nil, nil
	}
	mode, err := userdomain.ParseGameMode(raw)
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

// respondDetails writes the details of clanID in mode, decorated with presence.
func (h *ClanHandlers) respondDetails(ctx context.Context, w http.ResponseWriter, op string, clanID int64, mode userdomain.GameMode) {
	details, err := h.leaderboard.GetClanDetails(ctx, clanID, mode)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	h.writeDetails(ctx, w, details)
}

func (h *ClanHandlers) writeDetails(ctx context.Context, w http.ResponseWriter, details *clandomain.ClanDetails) {
	online, err := h.presence.Online(ctx, clandto.MemberIDs(details))
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to read presence",
			slog.Int64("clan_id", details.Clan.ID),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
		online = nil
	}
	writeJSON(w, http.StatusOK, clandto.NewClanDetailsResponse(details, online))
}

// respondClanResult writes the caller's clan details for a successful mutation
// or the failure problem.
func (h *ClanHandlers) respondClanResult(ctx context.Context, w http.ResponseWriter, op string, identity userdomain.Identity, result clanservice.ClanResult, err error) {
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	h.respondDetails(ctx, w, op, (*result.Success).ID, identity.DefaultMode)
}

// respondEmpty writes an empty 200 for a successful mutation or the failure problem.
func (h *ClanHandlers) respondEmpty(ctx context.Context, w http.ResponseWriter, op string, result clanservice.ClanIDResult, err error) {
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	w.WriteHeader(http.StatusOK)
}
