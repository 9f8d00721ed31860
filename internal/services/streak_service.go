package services

import (
	"context"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
	"learnhub/internal/validation"

	"go.uber.org/zap"
)

const activityDateLayout = "2006-01-02"

// streakService implements StreakService
type streakService struct {
	streakRepo   repositories.StreakRepository
	activityRepo repositories.ActivityRepository
	pointsSvc    PointsService
	eventBus     events.EventBus
	points       config.PointsConfig
	milestones   []int
	logger       *zap.Logger
}

// NewStreakService creates a new streak service
func NewStreakService(
	streakRepo repositories.StreakRepository,
	activityRepo repositories.ActivityRepository,
	pointsSvc PointsService,
	eventBus events.EventBus,
	points config.PointsConfig,
	milestones []int,
	logger *zap.Logger,
) StreakService {
	return &streakService{
		streakRepo:   streakRepo,
		activityRepo: activityRepo,
		pointsSvc:    pointsSvc,
		eventBus:     eventBus,
		points:       points,
		milestones:   milestones,
		logger:       logger,
	}
}

// RecordActivity applies one activity day to the user's streak.
//
// Transitions, by gap in days from the last recorded activity:
//
//	no prior state  -> started (streak 1)
//	gap == 0        -> unchanged (same-day repeats are no-ops)
//	gap == 1        -> extended
//	gap  > 1        -> frozen when a freeze is available, else reset to 1
//	gap  < 0        -> rejected, state untouched
func (s *streakService) RecordActivity(ctx context.Context, req RecordActivityRequest) (*StreakResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid activity request", err)
	}

	date, err := time.ParseInLocation(activityDateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, NewValidationError("date must be formatted YYYY-MM-DD", err)
	}

	result := &StreakResult{}
	previousStreak := 0

	err = s.streakRepo.Mutate(ctx, req.UserID, func(current *models.StreakState) (*models.StreakState, error) {
		if current != nil {
			previousStreak = current.CurrentStreak
		}
		next, transition, freezeUsed, applyErr := applyActivityDay(current, date)
		if applyErr != nil {
			return nil, applyErr
		}

		result.Transition = transition
		result.FreezeUsed = freezeUsed
		if next != nil {
			next.UserID = req.UserID
			snapshot := *next
			result.State = &snapshot
		} else {
			snapshot := *current
			result.State = &snapshot
		}
		return next, nil
	})
	if err != nil {
		if svcErr := GetServiceError(err); svcErr.Code == CodeOutOfOrderActivity {
			return nil, svcErr
		}
		s.logger.Error("Failed to record streak activity",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to record activity")
	}

	s.settle(ctx, req.UserID, previousStreak, result)
	return result, nil
}

// applyActivityDay computes the next streak state for one activity day.
// A nil next state means nothing changed. Pure: no clock, no storage.
func applyActivityDay(current *models.StreakState, date time.Time) (*models.StreakState, models.StreakTransition, bool, error) {
	if current == nil || current.CurrentStreak == 0 || current.LastActivityDate == nil {
		next := &models.StreakState{
			CurrentStreak:    1,
			LongestStreak:    1,
			LastActivityDate: &date,
		}
		if current != nil {
			next.FreezesRemaining = current.FreezesRemaining
			if current.LongestStreak > 1 {
				next.LongestStreak = current.LongestStreak
			}
		}
		return next, models.StreakStarted, false, nil
	}

	gap := daysBetween(*current.LastActivityDate, date)
	switch {
	case gap < 0:
		return nil, "", false, NewOutOfOrderActivityError(
			current.LastActivityDate.Format(activityDateLayout),
			date.Format(activityDateLayout),
		)

	case gap == 0:
		return nil, models.StreakUnchanged, false, nil

	case gap == 1:
		next := extend(current, date)
		return next, models.StreakExtended, false, nil

	default: // gap > 1
		if current.FreezesRemaining > 0 {
			next := extend(current, date)
			next.FreezesRemaining--
			return next, models.StreakFrozen, true, nil
		}
		next := &models.StreakState{
			CurrentStreak:    1,
			LongestStreak:    current.LongestStreak,
			LastActivityDate: &date,
			FreezesRemaining: current.FreezesRemaining,
		}
		return next, models.StreakReset, false, nil
	}
}

func extend(current *models.StreakState, date time.Time) *models.StreakState {
	next := &models.StreakState{
		CurrentStreak:    current.CurrentStreak + 1,
		LongestStreak:    current.LongestStreak,
		LastActivityDate: &date,
		FreezesRemaining: current.FreezesRemaining,
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	return next
}

// daysBetween counts whole calendar days from a to b in UTC
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// settle grants bonuses and publishes events after the state change committed.
// Failures here are logged, never surfaced: the streak mutation is the source
// of truth and has already been stored.
func (s *streakService) settle(ctx context.Context, userID int64, previousStreak int, result *StreakResult) {
	state := result.State

	switch result.Transition {
	case models.StreakUnchanged:
		return

	case models.StreakReset:
		if err := s.eventBus.PublishAsync(ctx, events.NewStreakBrokenEvent(userID, previousStreak)); err != nil {
			s.logger.Warn("Failed to publish streak broken event", zap.Error(err))
		}

	case models.StreakExtended, models.StreakFrozen:
		if err := s.eventBus.PublishAsync(ctx, events.NewStreakExtendedEvent(
			userID, state.CurrentStreak, state.LongestStreak, result.FreezeUsed,
		)); err != nil {
			s.logger.Warn("Failed to publish streak extended event", zap.Error(err))
		}
	}

	// Every counted activity day earns the daily streak bonus
	if bonus, err := s.pointsSvc.EarnBonus(ctx, userID, s.points.StreakDaily, ActionStreakDaily); err != nil {
		s.logger.Error("Failed to grant daily streak bonus", zap.Int64("user_id", userID), zap.Error(err))
	} else {
		result.PointsAwarded += bonus.Transaction.Amount
	}

	for _, milestone := range s.milestones {
		if state.CurrentStreak == milestone {
			s.settleMilestone(ctx, userID, milestone, result)
			break
		}
	}
}

func (s *streakService) settleMilestone(ctx context.Context, userID int64, milestone int, result *StreakResult) {
	result.MilestoneHit = milestone

	// Week-scale milestones pay the weekly bonus, month-scale and beyond
	// pay the monthly bonus.
	reason, amount := ActionStreakWeekly, s.points.StreakWeekly
	if milestone >= 30 {
		reason, amount = ActionStreakMonthly, s.points.StreakMonthly
	}

	if bonus, err := s.pointsSvc.EarnBonus(ctx, userID, amount, reason); err != nil {
		s.logger.Error("Failed to grant milestone bonus",
			zap.Int64("user_id", userID),
			zap.Int("milestone", milestone),
			zap.Error(err),
		)
	} else {
		result.PointsAwarded += bonus.Transaction.Amount
	}

	item := &models.ActivityFeedItem{
		UserID: userID,
		Type:   models.ActivityStreakMilestone,
		Metadata: map[string]interface{}{
			"milestone": milestone,
		},
		IsPublic: true,
	}
	if err := s.activityRepo.Insert(ctx, item); err != nil {
		s.logger.Error("Failed to record milestone feed item", zap.Int64("user_id", userID), zap.Error(err))
	}

	if err := s.eventBus.PublishAsync(ctx, events.NewStreakMilestoneEvent(userID, milestone)); err != nil {
		s.logger.Warn("Failed to publish streak milestone event", zap.Error(err))
	}
}

// GetStreak returns the user's streak state, zero-valued for new users
func (s *streakService) GetStreak(ctx context.Context, userID int64) (*models.StreakState, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	state, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get streak state", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to get streak state")
	}
	if state == nil {
		state = &models.StreakState{UserID: userID}
	}
	return state, nil
}

// GrantFreeze adds one streak freeze to the user's allowance
func (s *streakService) GrantFreeze(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, NewValidationError("user id is required", nil)
	}

	remaining, err := s.streakRepo.GrantFreeze(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to grant streak freeze", zap.Int64("user_id", userID), zap.Error(err))
		return 0, NewInternalError("failed to grant streak freeze")
	}

	s.logger.Info("Streak freeze granted",
		zap.Int64("user_id", userID),
		zap.Int("freezes_remaining", remaining),
	)
	return remaining, nil
}
