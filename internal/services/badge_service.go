package services

import (
	"context"
	"time"

	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// badgeService implements BadgeService
type badgeService struct {
	badgeRepo    repositories.BadgeRepository
	pointsRepo   repositories.PointsRepository
	streakRepo   repositories.StreakRepository
	activityRepo repositories.ActivityRepository
	pointsSvc    PointsService
	eventBus     events.EventBus
	logger       *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(
	badgeRepo repositories.BadgeRepository,
	pointsRepo repositories.PointsRepository,
	streakRepo repositories.StreakRepository,
	activityRepo repositories.ActivityRepository,
	pointsSvc PointsService,
	eventBus events.EventBus,
	logger *zap.Logger,
) BadgeService {
	return &badgeService{
		badgeRepo:    badgeRepo,
		pointsRepo:   pointsRepo,
		streakRepo:   streakRepo,
		activityRepo: activityRepo,
		pointsSvc:    pointsSvc,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Evaluate checks every active catalog entry the user does not hold yet and
// awards those whose criteria are met. One failing badge does not stop the
// rest; failures are aggregated and returned alongside the successful awards.
func (s *badgeService) Evaluate(ctx context.Context, userID int64) ([]*models.BadgeAward, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	catalog, err := s.badgeRepo.ListCatalog(ctx)
	if err != nil {
		s.logger.Error("Failed to load badge catalog", zap.Error(err))
		return nil, NewInternalError("failed to load badge catalog")
	}

	held, err := s.badgeRepo.ListAwardedCodes(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load awarded badges", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to load awarded badges")
	}

	counters := newCriteriaCounters(s, userID)

	var awards []*models.BadgeAward
	var evalErrs *multierror.Error

	for _, badge := range catalog {
		if held[badge.Code] {
			continue
		}

		value, err := counters.get(ctx, badge.CriteriaType)
		if err != nil {
			evalErrs = multierror.Append(evalErrs, err)
			continue
		}
		if value < badge.CriteriaValue {
			continue
		}

		award, err := s.award(ctx, userID, badge)
		if err != nil {
			evalErrs = multierror.Append(evalErrs, err)
			continue
		}
		if award != nil {
			awards = append(awards, award)
		}
	}

	if err := evalErrs.ErrorOrNil(); err != nil {
		s.logger.Error("Badge evaluation completed with errors",
			zap.Int64("user_id", userID),
			zap.Int("awarded", len(awards)),
			zap.Error(err),
		)
		if len(awards) == 0 {
			return nil, NewInternalError("badge evaluation failed")
		}
	}

	return awards, nil
}

// award records one badge, grants its reward points, and emits the feed item
// and event. Returns nil when a concurrent evaluation got there first.
func (s *badgeService) award(ctx context.Context, userID int64, badge *models.Badge) (*models.BadgeAward, error) {
	newly, err := s.badgeRepo.Award(ctx, userID, badge.Code)
	if err != nil {
		return nil, err
	}
	if !newly {
		return nil, nil
	}

	if badge.Points > 0 {
		if _, err := s.pointsSvc.EarnBonus(ctx, userID, badge.Points, "badge:"+badge.Code); err != nil {
			s.logger.Error("Failed to grant badge reward points",
				zap.Int64("user_id", userID),
				zap.String("badge_code", badge.Code),
				zap.Error(err),
			)
		}
	}

	item := &models.ActivityFeedItem{
		UserID: userID,
		Type:   models.ActivityBadgeEarned,
		Metadata: map[string]interface{}{
			"badge_code": badge.Code,
			"badge_name": badge.Name,
			"tier":       string(badge.Tier),
		},
		IsPublic: true,
	}
	if err := s.activityRepo.Insert(ctx, item); err != nil {
		s.logger.Error("Failed to record badge feed item",
			zap.Int64("user_id", userID),
			zap.String("badge_code", badge.Code),
			zap.Error(err),
		)
	}

	if err := s.eventBus.PublishAsync(ctx, events.NewBadgeAwardedEvent(
		userID, badge.Code, string(badge.Tier), badge.Points,
	)); err != nil {
		s.logger.Warn("Failed to publish badge awarded event", zap.Error(err))
	}

	s.logger.Info("Badge awarded",
		zap.Int64("user_id", userID),
		zap.String("badge_code", badge.Code),
		zap.String("tier", string(badge.Tier)),
	)

	return &models.BadgeAward{
		UserID:    userID,
		BadgeCode: badge.Code,
		AwardedAt: time.Now(),
		Badge:     badge,
	}, nil
}

// criteriaCounters resolves criteria counters lazily and memoizes them, so
// one evaluation pass hits each backing store at most once.
type criteriaCounters struct {
	svc    *badgeService
	userID int64
	cached map[string]int64
}

func newCriteriaCounters(svc *badgeService, userID int64) *criteriaCounters {
	return &criteriaCounters{
		svc:    svc,
		userID: userID,
		cached: make(map[string]int64),
	}
}

func (c *criteriaCounters) get(ctx context.Context, criteriaType string) (int64, error) {
	if value, ok := c.cached[criteriaType]; ok {
		return value, nil
	}

	value, err := c.resolve(ctx, criteriaType)
	if err != nil {
		return 0, err
	}
	c.cached[criteriaType] = value
	return value, nil
}

func (c *criteriaCounters) resolve(ctx context.Context, criteriaType string) (int64, error) {
	switch criteriaType {
	case models.CriteriaLifetimePoints:
		balance, err := c.svc.pointsRepo.GetBalance(ctx, c.userID)
		if err != nil {
			return 0, err
		}
		return balance.LifetimePoints(), nil

	case models.CriteriaStreakDays:
		state, err := c.svc.streakRepo.Get(ctx, c.userID)
		if err != nil {
			return 0, err
		}
		if state == nil {
			return 0, nil
		}
		return int64(state.LongestStreak), nil

	case models.CriteriaSessionsCompleted:
		return c.svc.pointsRepo.CountByReason(ctx, c.userID, ActionSessionComplete)

	case models.CriteriaQuizzesCompleted:
		return c.svc.pointsRepo.CountByReason(ctx, c.userID, ActionQuizComplete)

	case models.CriteriaPerfectQuizzes:
		return c.svc.pointsRepo.CountByReason(ctx, c.userID, ActionQuizPerfectScore)

	case models.CriteriaTopicsMastered:
		return c.svc.pointsRepo.CountByReason(ctx, c.userID, ActionTopicMastered)

	case models.CriteriaCommentsPosted:
		return c.svc.pointsRepo.CountByReason(ctx, c.userID, ActionCommentPosted)

	default:
		// Unknown criteria never match, so new catalog entries can ship
		// ahead of evaluator support without awarding spuriously.
		return -1, nil
	}
}

// GetCatalog returns the active badge catalog
func (s *badgeService) GetCatalog(ctx context.Context) ([]*models.Badge, error) {
	catalog, err := s.badgeRepo.ListCatalog(ctx)
	if err != nil {
		s.logger.Error("Failed to list badge catalog", zap.Error(err))
		return nil, NewInternalError("failed to list badge catalog")
	}
	return catalog, nil
}

// GetUserBadges returns the user's earned badges, newest first
func (s *badgeService) GetUserBadges(ctx context.Context, userID int64) ([]*models.BadgeAward, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	awards, err := s.badgeRepo.ListAwards(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list badge awards", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list badge awards")
	}
	return awards, nil
}
