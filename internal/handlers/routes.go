package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
)

// Routes wires the lifecycle API under /api
type Routes struct {
	Lifecycle *services.Lifecycle
	Sessions  services.SessionValidator
	Limiter   *middleware.RateLimiter
}

// Register mounts every route on app
func (r Routes) Register(app fiber.Router) {
	intentions := &IntentionHandler{Lifecycle: r.Lifecycle}
	matches := &MatchHandler{Lifecycle: r.Lifecycle}
	admin := &AdminHandler{Lifecycle: r.Lifecycle}

	authUser := middleware.AuthUser(r.Sessions, r.Lifecycle)
	authAdmin := middleware.AuthAdmin(r.Sessions, r.Lifecycle)
	limit := r.Limiter.Handler()

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Member routes
	api.Post("/intentions", authUser, limit, intentions.CreateIntention)
	api.Get("/intentions/status", authUser, intentions.GetStatus)
	api.Delete("/intentions/:id", authUser, limit, intentions.DeleteIntention)

	api.Get("/matches", authUser, matches.ListMatches)
	api.Get("/matches/:id", authUser, matches.GetMatch)
	api.Post("/matches/:id/accept", authUser, limit, matches.AcceptMatch)
	api.Post("/matches/:id/decline", authUser, limit, matches.DeclineMatch)
	api.Post("/matches/:id/feedback", authUser, limit, matches.SubmitFeedback)

	// Admin routes
	adminAPI := api.Group("/admin", authAdmin)
	adminAPI.Post("/matches", admin.CreateMatch)
	adminAPI.Delete("/matches/:id", admin.DeleteMatch)
	adminAPI.Post("/matches/:id/members", admin.AddMember)
	adminAPI.Delete("/matches/:id/members/:userId", admin.RemoveMember)
	adminAPI.Post("/members/move", admin.MoveMember)
	adminAPI.Get("/audit", admin.Audit)
	adminAPI.Post("/intentions/expire", admin.ExpireIntentions)
}
