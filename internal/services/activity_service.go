package services

import (
	"context"
	"fmt"

	"learnhub/internal/config"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
	"learnhub/internal/validation"

	"go.uber.org/zap"
)

// activityService implements ActivityService
type activityService struct {
	activityRepo repositories.ActivityRepository
	cfg          config.GamificationConfig
	logger       *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo repositories.ActivityRepository,
	cfg config.GamificationConfig,
	logger *zap.Logger,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Record appends one feed item after validating its type. Metadata is stored
// verbatim and never interpreted.
func (s *activityService) Record(ctx context.Context, req RecordFeedItemRequest) (*models.ActivityFeedItem, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid feed item", err)
	}
	if !models.ValidActivityType(req.Type) {
		return nil, NewValidationError(fmt.Sprintf("unrecognized feed item type %q", req.Type), nil)
	}

	item := &models.ActivityFeedItem{
		UserID:   req.UserID,
		Type:     req.Type,
		Metadata: req.Metadata,
		IsPublic: req.IsPublic,
	}
	if err := s.activityRepo.Insert(ctx, item); err != nil {
		s.logger.Error("Failed to insert feed item",
			zap.Int64("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to record feed item")
	}

	return item, nil
}

// GetFeed pages through a user's feed newest first. Private items are
// visible only when the viewer is the owner.
func (s *activityService) GetFeed(ctx context.Context, userID int64, viewerIsOwner bool, params models.PaginationParams) (*models.PaginatedResponse[*models.ActivityFeedItem], error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	params = repositories.NormalizePagination(params, s.cfg.FeedPageSize, s.cfg.FeedMaxPageSize)
	items, total, err := s.activityRepo.ListByUser(ctx, userID, viewerIsOwner, params)
	if err != nil {
		s.logger.Error("Failed to list feed items", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list feed items")
	}

	return &models.PaginatedResponse[*models.ActivityFeedItem]{
		Data:       items,
		Pagination: repositories.BuildPaginationMeta(params, total),
	}, nil
}
