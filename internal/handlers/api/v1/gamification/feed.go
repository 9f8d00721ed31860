// ===============================
// FILE: internal/handlers/api/v1/gamification/feed.go
// ===============================

package gamification

import (
	"net/http"

	"learnhub/internal/contextutils"
	"learnhub/internal/services"
)

// RecordFeedItem handles POST /api/v1/feed
func (c *Controller) RecordFeedItem(w http.ResponseWriter, r *http.Request) {
	var req services.RecordFeedItemRequest
	if !c.decode(w, r, &req) {
		return
	}

	item, err := c.activity.Record(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Created(w, r, item)
}

// GetFeed handles GET /api/v1/users/{userID}/feed
//
// Private items appear only when the caller is viewing their own feed.
func (c *Controller) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userIDParam(w, r)
	if !ok {
		return
	}

	viewerIsOwner := contextutils.GetUserID(r.Context()) == userID
	page, err := c.activity.GetFeed(r.Context(), userID, viewerIsOwner, paginationParams(r))
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Paginated(w, r, page.Data, page.Pagination)
}
