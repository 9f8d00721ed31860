// ===============================
// FILE: internal/router/router.go
// ===============================

package router

import (
	"encoding/json"
	"net/http"

	"learnhub/internal/handlers/api/v1/gamification"
	"learnhub/internal/middleware"
	"learnhub/internal/response"
	"learnhub/internal/services"
	"learnhub/internal/utils/appinfo"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New assembles the HTTP router over the service collection
func New(collection *services.ServiceCollection, logger *zap.Logger) http.Handler {
	responseBuilder := response.NewBuilder(logger)
	controller := gamification.NewController(collection, responseBuilder, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.UserContext())
	r.Use(middleware.StructuredLogger())
	r.Use(middleware.Recovery())

	r.Get("/healthz", healthHandler(collection))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/points", func(r chi.Router) {
			r.Post("/earn", controller.EarnPoints)
			r.Post("/spend", controller.SpendPoints)
		})

		r.Post("/streaks/activity", controller.RecordActivity)

		r.Get("/badges", controller.GetCatalog)
		r.Get("/leaderboard", controller.GetLeaderboard)
		r.Post("/feed", controller.RecordFeedItem)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/balance", controller.GetBalance)
			r.Get("/level", controller.GetLevel)
			r.Get("/transactions", controller.GetTransactions)
			r.Get("/streak", controller.GetStreak)
			r.Post("/streak/freeze", controller.GrantFreeze)
			r.Get("/badges", controller.GetUserBadges)
			r.Post("/badges/evaluate", controller.EvaluateBadges)
			r.Get("/feed", controller.GetFeed)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Post("/", controller.CreateAnnouncement)
			r.Get("/", controller.ListAnnouncements)
			r.Get("/unread-count", controller.UnreadAnnouncementCount)
			r.Get("/{id}", controller.GetAnnouncement)
			r.Put("/{id}", controller.UpdateAnnouncement)
			r.Post("/{id}/read", controller.MarkAnnouncementRead)
			r.Delete("/{id}", controller.DeleteAnnouncement)
		})
	})

	return r
}

// healthHandler reports dependency health; any unhealthy dependency turns
// the response into a 503
func healthHandler(collection *services.ServiceCollection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := collection.HealthCheck(r.Context())

		status := http.StatusOK
		for _, component := range health {
			if entry, ok := component.(map[string]interface{}); ok {
				if healthy, ok := entry["healthy"].(bool); ok && !healthy {
					status = http.StatusServiceUnavailable
					break
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      http.StatusText(status),
			"version":     appinfo.GetVersion(),
			"environment": appinfo.GetEnvironment(),
			"components":  health,
		})
	}
}
