package clanhandlers

import (
	"net/http"
	"strconv"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandto "github.com/Black-And-White-Club/clan-service/app/modules/clan/dto"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/pkg/problem"
)

// HandleGetClan handles GET /clan/{id}.
func (h *ClanHandlers) HandleGetClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleGetClan")
	defer span.End()

	clanID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, http.StatusBadRequest, "Invalid clan id.")
		return
	}
	mode, err := queryMode(r)
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid game mode.")
		return
	}
	if mode == nil {
		standard := userdomain.GameModeStandard
		mode = &standard
	}

	h.respondDetails(ctx, w, "GetClanDetails", clanID, *mode)
}

// HandleGetUserClan handles GET /user/{id}/clan. The mode defaults to the
// user's default mode.
func (h *ClanHandlers) HandleGetUserClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleGetUserClan")
	defer span.End()

	userID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	mode, err := queryMode(r)
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid game mode.")
		return
	}

	details, err := h.leaderboard.GetUserClanDetails(ctx, userID, mode)
	if err != nil {
		h.writeError(ctx, w, "GetUserClanDetails", err)
		return
	}
	h.writeDetails(ctx, w, details)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// HandleGetLeaderboard handles GET /clan/leaderboard.
func (h *ClanHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleGetLeaderboard")
	defer span.End()

	mode, err := queryMode(r)
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid game mode.")
		return
	}
	if mode == nil {
		standard := userdomain.GameModeStandard
		mode = &standard
	}

	limit, err := queryInt(r, "limit", clandomain.DefaultPageLimit)
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	pagination := clandomain.Pagination{Page: page, Limit: limit}
	if err := pagination.Validate(); err != nil {
		problem.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.leaderboard.ClansByLeaderboard(ctx, *mode, pagination)
	if err != nil {
		h.writeError(ctx, w, "ClansByLeaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, clandto.NewClansLeaderboardResponse(result.Clans, result.TotalCount))
}
