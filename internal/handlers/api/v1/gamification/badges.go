// ===============================
// FILE: internal/handlers/api/v1/gamification/badges.go
// ===============================

package gamification

import (
	"net/http"
)

// GetCatalog handles GET /api/v1/badges
func (c *Controller) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := c.badges.GetCatalog(r.Context())
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, catalog)
}

// GetUserBadges handles GET /api/v1/users/{userID}/badges
func (c *Controller) GetUserBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	awards, err := c.badges.GetUserBadges(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, awards)
}

// EvaluateBadges handles POST /api/v1/users/{userID}/badges/evaluate
func (c *Controller) EvaluateBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	awards, err := c.badges.Evaluate(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, map[string]interface{}{
		"user_id":    userID,
		"new_awards": awards,
	})
}
