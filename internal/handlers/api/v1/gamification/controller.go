// ===============================
// FILE: internal/handlers/api/v1/gamification/controller.go
// ===============================

package gamification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"learnhub/internal/models"
	"learnhub/internal/response"
	"learnhub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles the gamification API endpoints
type Controller struct {
	points        services.PointsService
	streaks       services.StreakService
	badges        services.BadgeService
	leaderboard   services.LeaderboardService
	activity      services.ActivityService
	announcements services.AnnouncementService
	response      *response.Builder
	logger        *zap.Logger
}

// NewController creates a gamification controller over the service collection
func NewController(collection *services.ServiceCollection, responseBuilder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{
		points:        collection.PointsService,
		streaks:       collection.StreakService,
		badges:        collection.BadgeService,
		leaderboard:   collection.LeaderboardService,
		activity:      collection.ActivityService,
		announcements: collection.AnnouncementService,
		response:      responseBuilder,
		logger:        logger,
	}
}

// ===============================
// REQUEST PARSING HELPERS
// ===============================

// decode parses a JSON request body into dst
func (c *Controller) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		c.logger.Warn("Failed to decode request body",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		c.response.BadRequest(w, r, "invalid request body")
		return false
	}
	return true
}

// userIDParam parses the {userID} URL parameter
func (c *Controller) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return c.int64Param(w, r, "userID")
}

func (c *Controller) int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		c.response.BadRequest(w, r, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}

// paginationParams reads limit/offset query parameters; the service layer
// applies defaults and clamps
func paginationParams(r *http.Request) models.PaginationParams {
	var params models.PaginationParams
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		params.Offset = offset
	}
	return params
}
