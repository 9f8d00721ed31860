// The router package wires this controller, so exercising real routes
// requires the external test package to avoid an import cycle.
package gamification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/router"
	"learnhub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ===============================
// SERVICE STUBS
// ===============================

type stubPointsService struct {
	earnFn func(ctx context.Context, req services.EarnPointsRequest) (*services.PointsResult, error)
	spendFn func(ctx context.Context, req services.SpendPointsRequest) (*services.PointsResult, error)
}

func (s *stubPointsService) Earn(ctx context.Context, req services.EarnPointsRequest) (*services.PointsResult, error) {
	return s.earnFn(ctx, req)
}

func (s *stubPointsService) EarnBonus(ctx context.Context, userID, amount int64, reason string) (*services.PointsResult, error) {
	return nil, services.NewInternalError("not implemented")
}

func (s *stubPointsService) Spend(ctx context.Context, req services.SpendPointsRequest) (*services.PointsResult, error) {
	return s.spendFn(ctx, req)
}

func (s *stubPointsService) GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error) {
	return &models.PointBalance{UserID: userID}, nil
}

func (s *stubPointsService) GetLevel(ctx context.Context, userID int64) (*models.LevelProgress, error) {
	return &models.LevelProgress{Level: 1, PointsRequiredForNext: 100}, nil
}

func (s *stubPointsService) GetTransactions(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.PointTransaction], error) {
	return &models.PaginatedResponse[*models.PointTransaction]{}, nil
}

type stubActivityService struct {
	lastViewerIsOwner bool
}

func (s *stubActivityService) Record(ctx context.Context, req services.RecordFeedItemRequest) (*models.ActivityFeedItem, error) {
	return &models.ActivityFeedItem{ID: 1, UserID: req.UserID, Type: req.Type}, nil
}

func (s *stubActivityService) GetFeed(ctx context.Context, userID int64, viewerIsOwner bool, params models.PaginationParams) (*models.PaginatedResponse[*models.ActivityFeedItem], error) {
	s.lastViewerIsOwner = viewerIsOwner
	return &models.PaginatedResponse[*models.ActivityFeedItem]{}, nil
}

type stubAnnouncementService struct{}

func (s *stubAnnouncementService) Create(ctx context.Context, req services.CreateAnnouncementRequest) (*models.Announcement, error) {
	return &models.Announcement{ID: 1, Title: req.Title}, nil
}

func (s *stubAnnouncementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	return &models.Announcement{ID: id}, nil
}

func (s *stubAnnouncementService) Update(ctx context.Context, id int64, req services.CreateAnnouncementRequest) (*models.Announcement, error) {
	return &models.Announcement{ID: id, Title: req.Title}, nil
}

func (s *stubAnnouncementService) List(ctx context.Context, userID int64) ([]*models.Announcement, error) {
	return nil, nil
}

func (s *stubAnnouncementService) MarkRead(ctx context.Context, announcementID, userID int64) error {
	return nil
}

func (s *stubAnnouncementService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func (s *stubAnnouncementService) Delete(ctx context.Context, id int64) error { return nil }

// ===============================
// TEST SETUP
// ===============================

func newTestRouter(points *stubPointsService, activity *stubActivityService) http.Handler {
	collection := &services.ServiceCollection{
		PointsService:       points,
		ActivityService:     activity,
		AnnouncementService: &stubAnnouncementService{},
		Logger:              zap.NewNop(),
	}
	return router.New(collection, zap.NewNop())
}

func defaultStubs() (*stubPointsService, *stubActivityService) {
	points := &stubPointsService{
		earnFn: func(ctx context.Context, req services.EarnPointsRequest) (*services.PointsResult, error) {
			return &services.PointsResult{
				Balance: &models.PointBalance{UserID: req.UserID, TotalEarned: 10, CurrentBalance: 10},
				Level:   models.LevelProgress{Level: 1},
			}, nil
		},
		spendFn: func(ctx context.Context, req services.SpendPointsRequest) (*services.PointsResult, error) {
			return nil, services.NewInsufficientBalanceError(5, req.Amount)
		},
	}
	return points, &stubActivityService{}
}

func doRequest(handler http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// ===============================
// TESTS
// ===============================

func TestEarnPointsEndpoint(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodPost, "/api/v1/points/earn",
		`{"user_id": 1, "action": "quiz_complete"}`, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, true, envelope["success"])
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestEarnPointsRejectsMalformedBody(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodPost, "/api/v1/points/earn", `{not json`, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, false, envelope["success"])
}

func TestSpendPointsMapsInsufficientBalance(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodPost, "/api/v1/points/spend",
		`{"user_id": 1, "amount": 50, "reason": "avatar"}`, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	errDetail := envelope["error"].(map[string]interface{})
	assert.Equal(t, services.CodeInsufficientBalance, errDetail["code"])
	details := errDetail["details"].(map[string]interface{})
	assert.Equal(t, float64(5), details["current_balance"])
}

func TestGetBalanceRejectsBadUserID(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodGet, "/api/v1/users/abc/balance", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetFeedViewerIdentity(t *testing.T) {
	points, activity := defaultStubs()
	handler := newTestRouter(points, activity)

	// Anonymous viewers never see private items
	recorder := doRequest(handler, http.MethodGet, "/api/v1/users/7/feed", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, activity.lastViewerIsOwner)

	// The owner sees their own private items
	recorder = doRequest(handler, http.MethodGet, "/api/v1/users/7/feed", "",
		map[string]string{"X-User-ID": "7"})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, activity.lastViewerIsOwner)

	// A different authenticated viewer does not
	recorder = doRequest(handler, http.MethodGet, "/api/v1/users/7/feed", "",
		map[string]string{"X-User-ID": "8"})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, activity.lastViewerIsOwner)
}

func TestListAnnouncementsRequiresIdentity(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodGet, "/api/v1/announcements", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doRequest(handler, http.MethodGet, "/api/v1/announcements", "",
		map[string]string{"X-User-ID": "3"})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMarkAnnouncementRead(t *testing.T) {
	handler := newTestRouter(defaultStubs())

	recorder := doRequest(handler, http.MethodPost, "/api/v1/announcements/5/read", "",
		map[string]string{"X-User-ID": "3"})
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
