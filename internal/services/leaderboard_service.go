package services

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/cache"
	"learnhub/internal/config"
	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
	"learnhub/internal/validation"

	"go.uber.org/zap"
)

// leaderboardService implements LeaderboardService. Standings are computed
// from the transaction ledger on demand and cached per (scope, scope id,
// period); earns invalidate the cache through the event bus, so standings
// are at most one cache TTL stale and usually fresher.
type leaderboardService struct {
	pointsRepo repositories.PointsRepository
	cache      cache.Cache
	eventBus   events.EventBus
	cfg        config.GamificationConfig
	logger     *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	pointsRepo repositories.PointsRepository,
	c cache.Cache,
	eventBus events.EventBus,
	cfg config.GamificationConfig,
	logger *zap.Logger,
) LeaderboardService {
	s := &leaderboardService{
		pointsRepo: pointsRepo,
		cache:      c,
		eventBus:   eventBus,
		cfg:        cfg,
		logger:     logger,
	}
	if err := s.registerInvalidation(); err != nil {
		logger.Warn("Failed to register leaderboard cache invalidation", zap.Error(err))
	}
	return s
}

// registerInvalidation subscribes the cache invalidation handler to ledger
// mutations, so standings never serve a cached view past the next earn for
// longer than it takes the bus to deliver.
func (s *leaderboardService) registerInvalidation() error {
	handler := events.NewEventHandlerFunc("leaderboard-cache-invalidation", func(ctx context.Context, _ events.Event) error {
		if err := s.cache.DeletePattern(ctx, "leaderboard:*"); err != nil {
			s.logger.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
		}
		return nil
	})
	return s.eventBus.SubscribePattern("points.*", handler)
}

// GetLeaderboard returns the standing for one scope and period
func (s *leaderboardService) GetLeaderboard(ctx context.Context, req LeaderboardRequest) (*models.Leaderboard, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid leaderboard request", err)
	}
	if err := validateScopeTarget(req.Scope, req.ScopeID); err != nil {
		return nil, err
	}
	if req.Scope == models.ScopeGlobal {
		req.ScopeID = nil
	}

	limit := req.Limit
	if limit <= 0 || limit > s.cfg.LeaderboardLimit {
		limit = s.cfg.LeaderboardLimit
	}

	key := cacheKey(req.Scope, req.ScopeID, req.Period, limit)
	cached := &models.Leaderboard{}
	if cache.GetJSON(ctx, s.cache, key, cached) {
		return cached, nil
	}

	now := time.Now().UTC()
	since := periodStart(now, req.Period)

	entries, err := s.pointsRepo.TopEarners(ctx, req.Scope, req.ScopeID, since, limit)
	if err != nil {
		s.logger.Error("Failed to compute leaderboard",
			zap.String("scope", string(req.Scope)),
			zap.String("period", string(req.Period)),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to compute leaderboard")
	}

	// Rows arrive fully ordered; ranks are their positions. The comparator
	// leaves no ties, so ranks are dense.
	for i := range entries {
		entries[i].Rank = i + 1
	}

	board := &models.Leaderboard{
		Scope:       req.Scope,
		ScopeID:     req.ScopeID,
		Period:      req.Period,
		Entries:     entries,
		GeneratedAt: now,
	}

	if err := s.cache.Set(ctx, key, board, s.cfg.LeaderboardCacheTTL); err != nil {
		s.logger.Warn("Failed to cache leaderboard", zap.String("key", key), zap.Error(err))
	}

	return board, nil
}

// validateScopeTarget rejects school and class requests with no target id
func validateScopeTarget(scope models.LeaderboardScope, scopeID *int64) error {
	switch scope {
	case models.ScopeSchool, models.ScopeClass:
		if scopeID == nil || *scopeID <= 0 {
			return NewInvalidScopeTargetError(string(scope))
		}
	}
	return nil
}

func cacheKey(scope models.LeaderboardScope, scopeID *int64, period models.LeaderboardPeriod, limit int) string {
	id := int64(0)
	if scopeID != nil {
		id = *scopeID
	}
	return fmt.Sprintf("leaderboard:%s:%d:%s:%d", scope, id, period, limit)
}

// periodStart returns the UTC start of the period containing now, or nil for
// the all-time window. Weeks start on Sunday.
func periodStart(now time.Time, period models.LeaderboardPeriod) *time.Time {
	var start time.Time

	switch period {
	case models.PeriodDaily:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case models.PeriodWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case models.PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}

	return &start
}
