package services

import (
	"context"
	"errors"
	"fmt"

	"learnhub/internal/config"
	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
	"learnhub/internal/validation"

	"go.uber.org/zap"
)

// pointsService implements PointsService
type pointsService struct {
	pointsRepo   repositories.PointsRepository
	activityRepo repositories.ActivityRepository
	eventBus     events.EventBus
	points       config.PointsConfig
	logger       *zap.Logger
}

// NewPointsService creates a new points service
func NewPointsService(
	pointsRepo repositories.PointsRepository,
	activityRepo repositories.ActivityRepository,
	eventBus events.EventBus,
	points config.PointsConfig,
	logger *zap.Logger,
) PointsService {
	return &pointsService{
		pointsRepo:   pointsRepo,
		activityRepo: activityRepo,
		eventBus:     eventBus,
		points:       points,
		logger:       logger,
	}
}

// Earn credits the user for a recognized action
func (s *pointsService) Earn(ctx context.Context, req EarnPointsRequest) (*PointsResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid earn request", err)
	}

	amount, err := s.resolveAmount(req)
	if err != nil {
		return nil, err
	}

	return s.credit(ctx, req.UserID, amount, req.Action)
}

// EarnBonus credits a raw amount on behalf of another gamification component
func (s *pointsService) EarnBonus(ctx context.Context, userID, amount int64, reason string) (*PointsResult, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}
	if amount <= 0 {
		return nil, NewValidationError("bonus amount must be positive", nil)
	}

	return s.credit(ctx, userID, amount, reason)
}

// resolveAmount maps an action to its configured point value. Session
// completions add per-minute accrual up to the cap.
func (s *pointsService) resolveAmount(req EarnPointsRequest) (int64, error) {
	if req.Action == ActionSessionComplete {
		return s.points.SessionPoints(req.SessionMinutes), nil
	}

	amount, ok := s.points.AmountFor(req.Action)
	if !ok {
		err := NewValidationError(fmt.Sprintf("unrecognized action %q", req.Action), nil)
		err.Code = CodeUnknownAction
		return 0, err
	}
	return amount, nil
}

// credit runs the earn, then derives level movement and publishes events
func (s *pointsService) credit(ctx context.Context, userID, amount int64, reason string) (*PointsResult, error) {
	txn, balance, err := s.pointsRepo.Earn(ctx, userID, amount, reason)
	if err != nil {
		s.logger.Error("Failed to credit points",
			zap.Int64("user_id", userID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to credit points")
	}

	oldLevel := LevelOf(balance.LifetimePoints() - amount)
	newLevel := LevelOf(balance.LifetimePoints())

	result := &PointsResult{
		Transaction: txn,
		Balance:     balance,
		Level:       newLevel,
		LeveledUp:   newLevel.Level > oldLevel.Level,
		OldLevel:    oldLevel.Level,
	}

	if result.LeveledUp {
		s.recordLevelUp(ctx, userID, oldLevel.Level, newLevel.Level)
	}

	if pubErr := s.eventBus.PublishAsync(ctx, events.NewPointsEarnedEvent(
		userID, txn.ID, amount, reason, balance.CurrentBalance, balance.LifetimePoints(),
	)); pubErr != nil {
		s.logger.Warn("Failed to publish points earned event", zap.Error(pubErr))
	}

	s.logger.Info("Points credited",
		zap.Int64("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("reason", reason),
		zap.Int64("new_balance", balance.CurrentBalance),
	)

	return result, nil
}

// recordLevelUp writes the feed item and event for a level threshold crossing.
// A failed feed write is logged, not surfaced; the earn already committed.
func (s *pointsService) recordLevelUp(ctx context.Context, userID int64, oldLevel, newLevel int) {
	item := &models.ActivityFeedItem{
		UserID: userID,
		Type:   models.ActivityLevelUp,
		Metadata: map[string]interface{}{
			"old_level": oldLevel,
			"new_level": newLevel,
		},
		IsPublic: true,
	}
	if err := s.activityRepo.Insert(ctx, item); err != nil {
		s.logger.Error("Failed to record level up feed item",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if err := s.eventBus.PublishAsync(ctx, events.NewLevelUpEvent(userID, oldLevel, newLevel)); err != nil {
		s.logger.Warn("Failed to publish level up event", zap.Error(err))
	}
}

// Spend debits the user, rejecting spends the balance cannot cover
func (s *pointsService) Spend(ctx context.Context, req SpendPointsRequest) (*PointsResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid spend request", err)
	}

	txn, balance, err := s.pointsRepo.Spend(ctx, req.UserID, req.Amount, req.Reason)
	if errors.Is(err, repositories.ErrInsufficientBalance) {
		current, balErr := s.pointsRepo.GetBalance(ctx, req.UserID)
		if balErr != nil {
			return nil, NewInsufficientBalanceError(0, req.Amount)
		}
		return nil, NewInsufficientBalanceError(current.CurrentBalance, req.Amount)
	}
	if err != nil {
		s.logger.Error("Failed to debit points",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to debit points")
	}

	if pubErr := s.eventBus.PublishAsync(ctx, events.NewPointsSpentEvent(
		req.UserID, txn.ID, req.Amount, req.Reason, balance.CurrentBalance,
	)); pubErr != nil {
		s.logger.Warn("Failed to publish points spent event", zap.Error(pubErr))
	}

	s.logger.Info("Points debited",
		zap.Int64("user_id", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.String("reason", req.Reason),
		zap.Int64("new_balance", balance.CurrentBalance),
	)

	return &PointsResult{
		Transaction: txn,
		Balance:     balance,
		Level:       LevelOf(balance.LifetimePoints()),
	}, nil
}

// GetBalance returns the user's balance, zero-valued for new users
func (s *pointsService) GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	balance, err := s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get balance", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to get balance")
	}
	return balance, nil
}

// GetLevel derives the user's level from lifetime earned points
func (s *pointsService) GetLevel(ctx context.Context, userID int64) (*models.LevelProgress, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := LevelOf(balance.LifetimePoints())
	return &level, nil
}

// GetTransactions pages through the user's ledger, newest first
func (s *pointsService) GetTransactions(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.PointTransaction], error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	params = repositories.NormalizePagination(params, 20, 100)
	txns, total, err := s.pointsRepo.ListTransactions(ctx, userID, params)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list transactions")
	}

	return &models.PaginatedResponse[*models.PointTransaction]{
		Data:       txns,
		Pagination: repositories.BuildPaginationMeta(params, total),
	}, nil
}
