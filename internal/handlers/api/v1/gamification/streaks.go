// ===============================
// FILE: internal/handlers/api/v1/gamification/streaks.go
// ===============================

package gamification

import (
	"net/http"

	"learnhub/internal/services"
)

// RecordActivity handles POST /api/v1/streaks/activity
func (c *Controller) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req services.RecordActivityRequest
	if !c.decode(w, r, &req) {
		return
	}

	result, err := c.streaks.RecordActivity(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, result)
}

// GetStreak handles GET /api/v1/users/{userID}/streak
func (c *Controller) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	state, err := c.streaks.GetStreak(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, state)
}

// GrantFreeze handles POST /api/v1/users/{userID}/streak/freeze
func (c *Controller) GrantFreeze(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	remaining, err := c.streaks.GrantFreeze(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, map[string]interface{}{
		"user_id":           userID,
		"freezes_remaining": remaining,
	})
}
