package clanrouter

import (
	"context"
	"log/slog"
	"net/http"

	clanhandlers "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

// ClanRouter registers the clan module on the HTTP router and the admin
// command stream.
type ClanRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
}

// NewClanRouter creates a new ClanRouter.
func NewClanRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber) *ClanRouter {
	return &ClanRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure wires the admin command topic to its handler.
func (r *ClanRouter) Configure(_ context.Context, commandTopic string, handlers clanhandlers.AdminHandlers) error {
	r.logger.Info("Registering clan module handlers",
		slog.String("admin_command_subject", commandTopic),
	)

	r.router.AddNoPublisherHandler(
		"clan."+commandTopic,
		commandTopic,
		r.subscriber,
		handlers.HandleAdminCommand,
	)

	r.logger.Info("Clan module handlers registered successfully")
	return nil
}

// RegisterRoutes mounts the clan HTTP surface. requireIdentity guards the
// routes that act on behalf of the caller.
func RegisterRoutes(r chi.Router, h clanhandlers.Handlers, requireIdentity func(http.Handler) http.Handler) {
	r.Route("/clan", func(r chi.Router) {
		r.Get("/leaderboard", h.HandleGetLeaderboard)
		r.Get("/{id:[0-9]+}", h.HandleGetClan)

		r.Group(func(r chi.Router) {
			r.Use(requireIdentity)

			r.Post("/", h.HandleCreateClan)
			r.Delete("/", h.HandleDeleteClan)
			r.Post("/{id:[0-9]+}/join", h.HandleJoinClan)
			r.Post("/leave", h.HandleLeaveClan)
			r.Post("/kick/{userId:[0-9]+}", h.HandleKickClanMember)

			for _, edit := range []struct {
				path    string
				handler http.HandlerFunc
			}{
				{"/name", h.HandleEditClanName},
				{"/avatar", h.HandleEditClanAvatar},
				{"/description", h.HandleEditClanDescription},
				{"/tag", h.HandleEditClanTag},
			} {
				r.Patch(edit.path, edit.handler)
				r.Post(edit.path, edit.handler)
			}
		})
	})

	r.Get("/user/{id:[0-9]+}/clan", h.HandleGetUserClan)
}

// Close shuts down the router.
func (r *ClanRouter) Close() error {
	return r.router.Close()
}
