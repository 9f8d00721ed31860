// ===============================
// FILE: internal/handlers/api/v1/gamification/points.go
// ===============================

package gamification

import (
	"net/http"

	"learnhub/internal/services"
)

// EarnPoints handles POST /api/v1/points/earn
func (c *Controller) EarnPoints(w http.ResponseWriter, r *http.Request) {
	var req services.EarnPointsRequest
	if !c.decode(w, r, &req) {
		return
	}

	result, err := c.points.Earn(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, result)
}

// SpendPoints handles POST /api/v1/points/spend
func (c *Controller) SpendPoints(w http.ResponseWriter, r *http.Request) {
	var req services.SpendPointsRequest
	if !c.decode(w, r, &req) {
		return
	}

	result, err := c.points.Spend(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, result)
}

// GetBalance handles GET /api/v1/users/{userID}/balance
func (c *Controller) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	balance, err := c.points.GetBalance(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, balance)
}

// GetLevel handles GET /api/v1/users/{userID}/level
func (c *Controller) GetLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	level, err := c.points.GetLevel(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, level)
}

// GetTransactions handles GET /api/v1/users/{userID}/transactions
func (c *Controller) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	page, err := c.points.GetTransactions(r.Context(), userID, paginationParams(r))
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Paginated(w, r, page.Data, page.Pagination)
}
