// http собирает REST-роутер social-service: middleware, обработчики и маршруты.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/http/handlers"
	"github.com/pribylovaa/go-social-platform/internal/http/middleware"
	"github.com/pribylovaa/go-social-platform/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Auth     config.AuthConfig
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.AuthBearer(opts.Auth),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// posts & comments
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/{id}", h.GetPost)
	r.Get("/posts/{id}/comments", h.ListPostComments)
	r.Post("/posts/{id}/comments", h.CreateComment)
	r.Post("/posts/{id}/hide", h.HidePost)
	r.Post("/posts/{id}/follow", h.FollowPost)
	r.Post("/posts/{id}/poll", h.VotePoll)
	r.Get("/comments/{id}", h.GetComment)

	// votes & edits (kind: post|comment)
	r.Patch("/contents/{kind}/{id}", h.EditContent)
	r.Delete("/contents/{kind}/{id}", h.DeleteContent)
	r.Post("/contents/{kind}/{id}/upvote", h.Upvote)
	r.Post("/contents/{kind}/{id}/downvote", h.Downvote)
	r.Post("/contents/{kind}/{id}/save", h.Save)

	// feeds
	r.Get("/feed", h.HomeFeed)
	r.Get("/search", h.Search)
	r.Get("/users/{username}/posts", h.UserFeed)

	// communities
	r.Post("/communities", h.CreateCommunity)
	r.Route("/communities/{name}", func(r chi.Router) {
		r.Get("/", h.GetCommunity)
		r.Get("/feed", h.CommunityFeed)
		r.Post("/join", h.Join)
		r.Post("/leave", h.Leave)
		r.Post("/mute", h.Mute)

		// moderation
		r.Post("/bans", h.Ban)
		r.Delete("/bans/{username}", h.Unban)
		r.Post("/approved", h.Approve)
		r.Delete("/approved/{username}", h.Unapprove)
		r.Post("/moderators/invitations", h.InviteModerator)
		r.Post("/moderators/invitations/accept", h.AcceptInvitation)
		r.Post("/moderators/invitations/reject", h.RejectInvitation)
		r.Delete("/moderators/me", h.LeaveModeration)
		r.Delete("/moderators/{username}", h.RemoveModerator)
		r.Post("/contents/{kind}/{id}/lock", h.LockContent)
		r.Post("/contents/{kind}/{id}/unlock", h.UnlockContent)
		r.Post("/contents/{kind}/{id}/approve", h.ApproveContent)
	})

	// users & me
	r.Post("/users/{username}/block", h.Block)
	r.Delete("/users/{username}/block", h.Unblock)
	r.Patch("/me/preferences", h.UpdatePreferences)
	r.Get("/me/notifications", h.Notifications)
	r.Post("/me/notifications/{id}/read", h.MarkNotificationRead)

	// media
	r.Post("/media/presign", h.MediaPresign)
}
