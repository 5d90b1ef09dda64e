package clanhandlers

import (
	"fmt"
	"net/http"
	"strings"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandto "github.com/Black-And-White-Club/clan-service/app/modules/clan/dto"
	"github.com/Black-And-White-Club/clan-service/pkg/problem"
)

// nameDetail validates a clan name and returns the problem detail for an invalid one.
func nameDetail(name string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "Clan name cannot be empty.", false
	}
	if _, err := clandomain.NormalizeName(name); err != nil {
		return fmt.Sprintf("Clan name must be between %d and %d characters.", clandomain.MinNameLength, clandomain.MaxNameLength), false
	}
	return "", true
}

// HandleCreateClan handles POST /clan.
func (h *ClanHandlers) HandleCreateClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleCreateClan")
	defer span.End()

	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if identity.IsRestricted() {
		problem.Write(w, http.StatusBadRequest, clandomain.CodeUserIsRestricted.Detail())
		return
	}
	if identity.ClanID != nil {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeUserAlreadyInClan))
		return
	}

	var req clandto.CreateClanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if detail, ok := nameDetail(req.Name); !ok {
		problem.Write(w, http.StatusBadRequest, detail)
		return
	}
	if err := clandomain.ValidateAvatarURL(req.AvatarURL); err != nil {
		problem.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CreateClan(ctx, req.Name, req.AvatarURL, identity)
	h.respondClanResult(ctx, w, "CreateClan", identity, result, err)
}

// HandleJoinClan handles POST /clan/{id}/join.
func (h *ClanHandlers) HandleJoinClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleJoinClan")
	defer span.End()

	identity, ok := caller(w, r)
	if !ok {
		return
	}
	clanID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, http.StatusBadRequest, "Invalid clan id.")
		return
	}
	if identity.IsRestricted() {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeUserIsRestricted))
		return
	}

	result, err := h.service.JoinClan(ctx, clanID, identity.UserID)
	h.respondClanResult(ctx, w, "JoinClan", identity, result, err)
}

// HandleLeaveClan handles POST /clan/leave.
func (h *ClanHandlers) HandleLeaveClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleLeaveClan")
	defer span.End()

	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if identity.IsRestricted() {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeUserIsRestricted))
		return
	}

	result, err := h.service.LeaveClan(ctx, identity.UserID)
	h.respondEmpty(ctx, w, "LeaveClan", result, err)
}

// HandleDeleteClan handles DELETE /clan. Restricted callers reach the service,
// which rejects them with its own code.
func (h *ClanHandlers) HandleDeleteClan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleDeleteClan")
	defer span.End()

	identity, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.service.DeleteClan(ctx, identity.UserID, identity.IsRestricted())
	h.respondEmpty(ctx, w, "DeleteClan", result, err)
}

// HandleKickClanMember handles POST /clan/kick/{userId}.
func (h *ClanHandlers) HandleKickClanMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleKickClanMember")
	defer span.End()

	identity, ok := caller(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(r, "userId")
	if !ok {
		problem.Write(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	if identity.IsRestricted() {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeUserIsRestricted))
		return
	}

	result, err := h.service.KickClanMember(ctx, identity.UserID, targetID)
	h.respondClanResult(ctx, w, "KickClanMember", identity, result, err)
}
