package services

import (
	"context"
	"errors"
	"time"

	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
	"learnhub/internal/validation"

	"go.uber.org/zap"
)

// announcementService implements AnnouncementService
type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	membershipRepo   repositories.MembershipRepository
	eventBus         events.EventBus
	logger           *zap.Logger
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	membershipRepo repositories.MembershipRepository,
	eventBus events.EventBus,
	logger *zap.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		membershipRepo:   membershipRepo,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// Create stores an announcement after validating its scope targeting.
// PublishAt defaults to now; a future PublishAt schedules the announcement.
func (s *announcementService) Create(ctx context.Context, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid announcement", err)
	}

	switch req.Scope {
	case models.AnnounceSchool, models.AnnounceClass:
		if req.ScopeID == nil || *req.ScopeID <= 0 {
			return nil, NewInvalidScopeTargetError(string(req.Scope))
		}
	default:
		req.ScopeID = nil
	}

	publishAt := time.Now().UTC()
	if req.PublishAt != nil {
		publishAt = req.PublishAt.UTC()
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(publishAt) {
		return nil, NewValidationError("expires_at must be after publish_at", nil)
	}

	a := &models.Announcement{
		Type:      req.Type,
		Scope:     req.Scope,
		ScopeID:   req.ScopeID,
		Title:     req.Title,
		Body:      req.Body,
		IsPinned:  req.IsPinned,
		PublishAt: publishAt,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: req.CreatedBy,
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		s.logger.Error("Failed to create announcement", zap.Error(err))
		return nil, NewInternalError("failed to create announcement")
	}

	if err := s.eventBus.PublishAsync(ctx, events.NewAnnouncementPublishedEvent(
		req.CreatedBy, a.ID, string(a.Scope), a.PublishAt,
	)); err != nil {
		s.logger.Warn("Failed to publish announcement event", zap.Error(err))
	}

	s.logger.Info("Announcement created",
		zap.Int64("announcement_id", a.ID),
		zap.String("scope", string(a.Scope)),
		zap.Time("publish_at", a.PublishAt),
	)

	return a, nil
}

// Get returns one announcement by id
func (s *announcementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NewNotFoundError("announcement not found")
	}
	if err != nil {
		s.logger.Error("Failed to get announcement", zap.Int64("announcement_id", id), zap.Error(err))
		return nil, NewInternalError("failed to get announcement")
	}
	return a, nil
}

// Update replaces an announcement's content and scheduling fields. The
// author and creation time are immutable; read receipts are kept.
func (s *announcementService) Update(ctx context.Context, id int64, req CreateAnnouncementRequest) (*models.Announcement, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy == 0 {
		req.CreatedBy = existing.CreatedBy
	}

	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid announcement", err)
	}

	switch req.Scope {
	case models.AnnounceSchool, models.AnnounceClass:
		if req.ScopeID == nil || *req.ScopeID <= 0 {
			return nil, NewInvalidScopeTargetError(string(req.Scope))
		}
	default:
		req.ScopeID = nil
	}

	publishAt := existing.PublishAt
	if req.PublishAt != nil {
		publishAt = req.PublishAt.UTC()
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(publishAt) {
		return nil, NewValidationError("expires_at must be after publish_at", nil)
	}

	updated := &models.Announcement{
		ID:        existing.ID,
		Type:      req.Type,
		Scope:     req.Scope,
		ScopeID:   req.ScopeID,
		Title:     req.Title,
		Body:      req.Body,
		IsPinned:  req.IsPinned,
		PublishAt: publishAt,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: existing.CreatedBy,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.announcementRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("announcement not found")
		}
		s.logger.Error("Failed to update announcement", zap.Int64("announcement_id", id), zap.Error(err))
		return nil, NewInternalError("failed to update announcement")
	}

	s.logger.Info("Announcement updated",
		zap.Int64("announcement_id", id),
		zap.String("scope", string(updated.Scope)),
	)

	return updated, nil
}

// List returns announcements currently visible to the user
func (s *announcementService) List(ctx context.Context, userID int64) ([]*models.Announcement, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id is required", nil)
	}

	membership, err := s.membershipRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get scope membership", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list announcements")
	}

	announcements, err := s.announcementRepo.ListVisible(ctx, userID, *membership, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to list announcements", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list announcements")
	}
	return announcements, nil
}

// MarkRead records that the user has read the announcement. Marking an
// already-read announcement is a no-op, not an error.
func (s *announcementService) MarkRead(ctx context.Context, announcementID, userID int64) error {
	if userID <= 0 {
		return NewValidationError("user id is required", nil)
	}

	if _, err := s.Get(ctx, announcementID); err != nil {
		return err
	}

	if _, err := s.announcementRepo.MarkRead(ctx, announcementID, userID); err != nil {
		s.logger.Error("Failed to mark announcement read",
			zap.Int64("announcement_id", announcementID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return NewInternalError("failed to mark announcement read")
	}
	return nil
}

// UnreadCount counts visible announcements the user has not read
func (s *announcementService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewValidationError("user id is required", nil)
	}

	membership, err := s.membershipRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get scope membership", zap.Int64("user_id", userID), zap.Error(err))
		return 0, NewInternalError("failed to count unread announcements")
	}

	count, err := s.announcementRepo.UnreadCount(ctx, userID, *membership, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to count unread announcements", zap.Int64("user_id", userID), zap.Error(err))
		return 0, NewInternalError("failed to count unread announcements")
	}
	return count, nil
}

// Delete removes an announcement and its read receipts
func (s *announcementService) Delete(ctx context.Context, id int64) error {
	err := s.announcementRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewNotFoundError("announcement not found")
	}
	if err != nil {
		s.logger.Error("Failed to delete announcement", zap.Int64("announcement_id", id), zap.Error(err))
		return NewInternalError("failed to delete announcement")
	}

	s.logger.Info("Announcement deleted", zap.Int64("announcement_id", id))
	return nil
}
