// ===============================
// FILE: internal/handlers/api/v1/gamification/announcements.go
// ===============================

package gamification

import (
	"net/http"

	"learnhub/internal/contextutils"
	"learnhub/internal/services"
)

// CreateAnnouncement handles POST /api/v1/announcements
func (c *Controller) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAnnouncementRequest
	if !c.decode(w, r, &req) {
		return
	}
	if req.CreatedBy == 0 {
		req.CreatedBy = contextutils.GetUserID(r.Context())
	}

	announcement, err := c.announcements.Create(r.Context(), req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Created(w, r, announcement)
}

// GetAnnouncement handles GET /api/v1/announcements/{id}
func (c *Controller) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := c.int64Param(w, r, "id")
	if !ok {
		return
	}

	announcement, err := c.announcements.Get(r.Context(), id)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, announcement)
}

// UpdateAnnouncement handles PUT /api/v1/announcements/{id}
func (c *Controller) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := c.int64Param(w, r, "id")
	if !ok {
		return
	}
	var req services.CreateAnnouncementRequest
	if !c.decode(w, r, &req) {
		return
	}

	announcement, err := c.announcements.Update(r.Context(), id, req)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, announcement)
}

// ListAnnouncements handles GET /api/v1/announcements
//
// Returns the announcements currently visible to the caller, pinned first,
// with read state populated.
func (c *Controller) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID <= 0 {
		c.response.BadRequest(w, r, "user identity is required")
		return
	}

	announcements, err := c.announcements.List(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, announcements)
}

// MarkAnnouncementRead handles POST /api/v1/announcements/{id}/read
func (c *Controller) MarkAnnouncementRead(w http.ResponseWriter, r *http.Request) {
	id, ok := c.int64Param(w, r, "id")
	if !ok {
		return
	}
	userID := contextutils.GetUserID(r.Context())
	if userID <= 0 {
		c.response.BadRequest(w, r, "user identity is required")
		return
	}

	if err := c.announcements.MarkRead(r.Context(), id, userID); err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.NoContent(w)
}

// UnreadAnnouncementCount handles GET /api/v1/announcements/unread-count
func (c *Controller) UnreadAnnouncementCount(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID <= 0 {
		c.response.BadRequest(w, r, "user identity is required")
		return
	}

	count, err := c.announcements.UnreadCount(r.Context(), userID)
	if err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.Success(w, r, map[string]interface{}{"unread_count": count})
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/{id}
func (c *Controller) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := c.int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := c.announcements.Delete(r.Context(), id); err != nil {
		c.response.Error(w, r, err)
		return
	}
	c.response.NoContent(w)
}
