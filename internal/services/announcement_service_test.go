package services

import (
	"context"
	"testing"
	"time"

	"learnhub/internal/events"
	"learnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnnouncement(t *testing.T) {
	env := newTestEnv()

	a, err := env.announcementSvc.Create(context.Background(), CreateAnnouncementRequest{
		Type:      models.AnnouncementInfo,
		Scope:     models.AnnounceAll,
		Title:     "Exam week",
		Body:      "Mock exams start Monday.",
		CreatedBy: 9,
	})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.False(t, a.PublishAt.IsZero(), "publish defaults to now")

	published := env.bus.eventsOfType(events.EventAnnouncementSent)
	require.Len(t, published, 1)
}

func TestCreateScopedAnnouncementNeedsTarget(t *testing.T) {
	env := newTestEnv()

	_, err := env.announcementSvc.Create(context.Background(), CreateAnnouncementRequest{
		Type:      models.AnnouncementInfo,
		Scope:     models.AnnounceSchool,
		Title:     "School event",
		Body:      "Sports day.",
		CreatedBy: 9,
	})
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, CodeInvalidScopeTarget))
}

func TestCreateRejectsExpiryBeforePublish(t *testing.T) {
	env := newTestEnv()

	publish := time.Now().Add(48 * time.Hour)
	expires := time.Now().Add(24 * time.Hour)
	_, err := env.announcementSvc.Create(context.Background(), CreateAnnouncementRequest{
		Type:      models.AnnouncementInfo,
		Scope:     models.AnnounceAll,
		Title:     "Backwards window",
		Body:      "Should not save.",
		PublishAt: &publish,
		ExpiresAt: &expires,
		CreatedBy: 9,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestScheduledAnnouncementNotVisibleYet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	future := time.Now().Add(24 * time.Hour)
	_, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type:      models.AnnouncementInfo,
		Scope:     models.AnnounceAll,
		Title:     "Tomorrow's news",
		Body:      "Not yet.",
		PublishAt: &future,
		CreatedBy: 9,
	})
	require.NoError(t, err)

	visible, err := env.announcementSvc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestExpiredAnnouncementNotVisible(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	publish := time.Now().Add(-48 * time.Hour)
	expired := time.Now().Add(-24 * time.Hour)
	_, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type:      models.AnnouncementWarning,
		Scope:     models.AnnounceAll,
		Title:     "Old news",
		Body:      "Already over.",
		PublishAt: &publish,
		ExpiresAt: &expired,
		CreatedBy: 9,
	})
	require.NoError(t, err)

	visible, err := env.announcementSvc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestAnnouncementScopeTargeting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.memberships.Set(ctx, &models.ScopeMembership{
		UserID: 1, SchoolID: ptr(10), ClassID: ptr(100),
	}))
	require.NoError(t, env.memberships.Set(ctx, &models.ScopeMembership{
		UserID: 2, SchoolID: ptr(20),
	}))

	create := func(scope models.AnnouncementScope, scopeID *int64, title string) {
		_, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
			Type: models.AnnouncementInfo, Scope: scope, ScopeID: scopeID,
			Title: title, Body: "body", CreatedBy: 9,
		})
		require.NoError(t, err)
	}
	create(models.AnnounceAll, nil, "everyone")
	create(models.AnnounceSchool, ptr(10), "school ten")
	create(models.AnnounceClass, ptr(100), "class hundred")

	titles := func(userID int64) []string {
		visible, err := env.announcementSvc.List(ctx, userID)
		require.NoError(t, err)
		var out []string
		for _, a := range visible {
			out = append(out, a.Title)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"everyone", "school ten", "class hundred"}, titles(1))
	assert.ElementsMatch(t, []string{"everyone"}, titles(2))
	assert.ElementsMatch(t, []string{"everyone"}, titles(3), "no membership means global only")
}

func TestAnnouncementsPinnedFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	older := time.Now().Add(-2 * time.Hour)
	_, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "pinned but old", Body: "body", IsPinned: true,
		PublishAt: &older, CreatedBy: 9,
	})
	require.NoError(t, err)
	_, err = env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "fresh", Body: "body", CreatedBy: 9,
	})
	require.NoError(t, err)

	visible, err := env.announcementSvc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "pinned but old", visible[0].Title)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "read me", Body: "body", CreatedBy: 9,
	})
	require.NoError(t, err)

	count, err := env.announcementSvc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.announcementSvc.MarkRead(ctx, a.ID, 1))
	require.NoError(t, env.announcementSvc.MarkRead(ctx, a.ID, 1), "second mark is a no-op")

	count, err = env.announcementSvc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Read state is per user
	count, err = env.announcementSvc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	visible, err := env.announcementSvc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.True(t, visible[0].IsRead)
}

func TestMarkReadUnknownAnnouncement(t *testing.T) {
	env := newTestEnv()

	err := env.announcementSvc.MarkRead(context.Background(), 404, 1)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateAnnouncement(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "draft title", Body: "body", CreatedBy: 9,
	})
	require.NoError(t, err)

	updated, err := env.announcementSvc.Update(ctx, a.ID, CreateAnnouncementRequest{
		Type: models.AnnouncementUrgent, Scope: models.AnnounceAll,
		Title: "final title", Body: "body", IsPinned: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "final title", updated.Title)
	assert.True(t, updated.IsPinned)
	assert.Equal(t, int64(9), updated.CreatedBy, "author is immutable")

	got, err := env.announcementSvc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "final title", got.Title)
	assert.Equal(t, models.AnnouncementUrgent, got.Type)
}

func TestUpdateUnknownAnnouncement(t *testing.T) {
	env := newTestEnv()

	_, err := env.announcementSvc.Update(context.Background(), 404, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "nothing here", Body: "body", CreatedBy: 9,
	})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateRejectsExpiryBeforePublish(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "valid window", Body: "body", CreatedBy: 9,
	})
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	_, err = env.announcementSvc.Update(ctx, a.ID, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "valid window", Body: "body", ExpiresAt: &expired,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestDeleteAnnouncement(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.announcementSvc.Create(ctx, CreateAnnouncementRequest{
		Type: models.AnnouncementInfo, Scope: models.AnnounceAll,
		Title: "short lived", Body: "body", CreatedBy: 9,
	})
	require.NoError(t, err)

	require.NoError(t, env.announcementSvc.Delete(ctx, a.ID))

	_, err = env.announcementSvc.Get(ctx, a.ID)
	assert.True(t, IsNotFoundError(err))

	err = env.announcementSvc.Delete(ctx, a.ID)
	assert.True(t, IsNotFoundError(err))
}
