package clanhandlers

import (
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers serves the clan HTTP surface.
type Handlers interface {
	HandleCreateClan(w http.ResponseWriter, r *http.Request)
	HandleJoinClan(w http.ResponseWriter, r *http.Request)
	HandleLeaveClan(w http.ResponseWriter, r *http.Request)
	HandleDeleteClan(w http.ResponseWriter, r *http.Request)
	HandleKickClanMember(w http.ResponseWriter, r *http.Request)
	HandleEditClanName(w http.ResponseWriter, r *http.Request)
	HandleEditClanAvatar(w http.ResponseWriter, r *http.Request)
	HandleEditClanDescription(w http.ResponseWriter, r *http.Request)
	HandleEditClanTag(w http.ResponseWriter, r *http.Request)

	HandleGetClan(w http.ResponseWriter, r *http.Request)
	HandleGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleGetUserClan(w http.ResponseWriter, r *http.Request)
}

// AdminHandlers consumes the admin command stream.
type AdminHandlers interface {
	HandleAdminCommand(msg *message.Message) error
}
