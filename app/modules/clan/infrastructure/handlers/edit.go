package clanhandlers

import (
	"net/http"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	clandto "github.com/Black-And-White-Club/clan-service/app/modules/clan/dto"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/Black-And-White-Club/clan-service/pkg/problem"
)

// editCaller resolves the caller of an edit endpoint; restricted accounts are refused.
func editCaller(w http.ResponseWriter, r *http.Request) (userdomain.Identity, bool) {
	identity, ok := caller(w, r)
	if !ok {
		return identity, false
	}
	if identity.IsRestricted() {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeUserIsRestricted))
		return identity, false
	}
	return identity, true
}

// HandleEditClanName handles PATCH /clan/name.
func (h *ClanHandlers) HandleEditClanName(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleEditClanName")
	defer span.End()

	identity, ok := editCaller(w, r)
	if !ok {
		return
	}

	var req clandto.EditClanNameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if detail, ok := nameDetail(req.Name); !ok {
		problem.Write(w, http.StatusBadRequest, detail)
		return
	}

	result, err := h.service.UpdateClanName(ctx, identity.UserID, req.Name, identity.HasSupporter())
	h.respondClanResult(ctx, w, "UpdateClanName", identity, result, err)
}

// HandleEditClanAvatar handles PATCH /clan/avatar.
func (h *ClanHandlers) HandleEditClanAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleEditClanAvatar")
	defer span.End()

	identity, ok := editCaller(w, r)
	if !ok {
		return
	}

	var req clandto.EditClanAvatarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := clandomain.ValidateAvatarURL(req.AvatarURL); err != nil {
		problem.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.UpdateClanAvatar(ctx, identity.UserID, req.AvatarURL)
	h.respondClanResult(ctx, w, "UpdateClanAvatar", identity, result, err)
}

// HandleEditClanDescription handles PATCH /clan/description.
func (h *ClanHandlers) HandleEditClanDescription(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleEditClanDescription")
	defer span.End()

	identity, ok := editCaller(w, r)
	if !ok {
		return
	}

	var req clandto.EditClanDescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := clandomain.ValidateDescription(req.Description); err != nil {
		problem.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.UpdateClanDescription(ctx, identity.UserID, req.Description)
	h.respondClanResult(ctx, w, "UpdateClanDescription", identity, result, err)
}

// HandleEditClanTag handles PATCH /clan/tag.
func (h *ClanHandlers) HandleEditClanTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClanHandlers.HandleEditClanTag")
	defer span.End()

	identity, ok := editCaller(w, r)
	if !ok {
		return
	}

	var req clandto.EditClanTagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := clandomain.NormalizeTag(req.Tag); !ok {
		writeFailure(w, clandomain.NewFailure(clandomain.CodeInvalidClanTag))
		return
	}

	result, err := h.service.UpdateClanTag(ctx, identity.UserID, req.Tag)
	h.respondClanResult(ctx, w, "UpdateClanTag", identity, result, err)
}
