package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// activityRepository implements ActivityRepository over postgres.
// Metadata round-trips through a jsonb column untouched.
type activityRepository struct {
	*BaseRepository
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.Manager, logger *zap.Logger) ActivityRepository {
	return &activityRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Insert appends a feed item, populating ID and CreatedAt
func (r *activityRepository) Insert(ctx context.Context, item *models.ActivityFeedItem) error {
	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal feed metadata: %w", err)
	}

	err = r.QueryRowContext(ctx, `
		INSERT INTO activity_feed (user_id, type, metadata, is_public, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		item.UserID, item.Type, metadata, item.IsPublic,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feed item: %w", err)
	}

	return nil
}

// ListByUser returns the user's feed newest first
func (r *activityRepository) ListByUser(ctx context.Context, userID int64, includePrivate bool, params models.PaginationParams) ([]*models.ActivityFeedItem, int64, error) {
	visibility := "AND is_public = TRUE"
	if includePrivate {
		visibility = ""
	}

	var total int64
	err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM activity_feed WHERE user_id = $1 %s`, visibility),
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count feed items: %w", err)
	}

	rows, err := r.QueryContext(ctx,
		fmt.Sprintf(`
		SELECT id, user_id, type, metadata, is_public, created_at
		FROM activity_feed
		WHERE user_id = $1 %s
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, visibility),
		userID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed items: %w", err)
	}
	defer rows.Close()

	var items []*models.ActivityFeedItem
	for rows.Next() {
		item := &models.ActivityFeedItem{}
		var metadata []byte
		if err := rows.Scan(&item.ID, &item.UserID, &item.Type, &metadata, &item.IsPublic, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan feed item: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal feed metadata: %w", err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
