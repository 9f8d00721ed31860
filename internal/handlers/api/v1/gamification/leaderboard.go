// ===============================
// FILE: internal/handlers/api/v1/gamification/leaderboard.go
// ===============================

package gamification

import (
	"net/http"
	"strconv"

	"learnhub/internal/models"
	"learnhub/internal/services"
)

// GetLeaderboard handles GET /api/v1/leaderboard
//
// Query parameters: scope (global|school|class), scope_id, period
// (all_time|monthly|weekly|daily), limit.
func (c *Controller) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := services.LeaderboardRequest{
		Scope:  models.LeaderboardScope(query.Get("scope")),
		Period: models.LeaderboardPeriod(query.Get("period")),
	}
	if req.Scope == "" {
		req.Scope = models.ScopeGlobal
	}
	if req.Period == "" {
		req.Period = models.PeriodAllTime
	}
	if raw := query.Get("scope_id"); raw != "" {
		scopeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || scopeID <= 0 {
			c.response.BadRequest(w, r, "scope_id must be a positive integer")
			return
		}
		req.ScopeID = &scopeID
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.response.BadRequest(w, r, "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	board, err := c.leaderboard.GetLeaderboard(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, board)
}
