package repositories

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// announcementRepository implements AnnouncementRepository over postgres
type announcementRepository struct {
	*BaseRepository
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *database.Manager, logger *zap.Logger) AnnouncementRepository {
	return &announcementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create stores a new announcement, populating ID and CreatedAt
func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO announcements (type, scope, scope_id, title, body, is_pinned, publish_at, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at`,
		a.Type, a.Scope, a.ScopeID, a.Title, a.Body, a.IsPinned, a.PublishAt, a.ExpiresAt, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

// GetByID returns the announcement or ErrNotFound
func (r *announcementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := r.QueryRowContext(ctx, `
		SELECT id, type, scope, scope_id, title, body, is_pinned, publish_at, expires_at, created_by, created_at
		FROM announcements
		WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Type, &a.Scope, &a.ScopeID, &a.Title, &a.Body, &a.IsPinned,
		&a.PublishAt, &a.ExpiresAt, &a.CreatedBy, &a.CreatedAt)
	if r.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return a, nil
}

// Update rewrites an announcement's content and scheduling fields
func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) error {
	result, err := r.ExecContext(ctx, `
		UPDATE announcements SET
			type = $2,
			scope = $3,
			scope_id = $4,
			title = $5,
			body = $6,
			is_pinned = $7,
			publish_at = $8,
			expires_at = $9
		WHERE id = $1`,
		a.ID, a.Type, a.Scope, a.ScopeID, a.Title, a.Body, a.IsPinned, a.PublishAt, a.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// visibilityClause filters to announcements that are live at the given
// instant and targeted at the user's membership. Placeholders start at the
// given index; returned args line up with them.
func visibilityClause(membership models.ScopeMembership, now time.Time, argIndex int) (string, []interface{}) {
	clause := fmt.Sprintf(`
		a.publish_at <= $%d
		AND (a.expires_at IS NULL OR a.expires_at >= $%d)
		AND (a.scope = 'all'`, argIndex, argIndex)
	args := []interface{}{now}
	argIndex++

	if membership.SchoolID != nil {
		clause += fmt.Sprintf(" OR (a.scope = 'school' AND a.scope_id = $%d)", argIndex)
		args = append(args, *membership.SchoolID)
		argIndex++
	}
	if membership.ClassID != nil {
		clause += fmt.Sprintf(" OR (a.scope = 'class' AND a.scope_id = $%d)", argIndex)
		args = append(args, *membership.ClassID)
	}
	clause += ")"

	return clause, args
}

// ListVisible returns active announcements visible to the membership,
// pinned first, then newest publish time. IsRead reflects the user's
// read receipts.
func (r *announcementRepository) ListVisible(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) ([]*models.Announcement, error) {
	clause, clauseArgs := visibilityClause(membership, now, 2)
	args := append([]interface{}{userID}, clauseArgs...)

	rows, err := r.QueryContext(ctx, fmt.Sprintf(`
		SELECT a.id, a.type, a.scope, a.scope_id, a.title, a.body, a.is_pinned,
		       a.publish_at, a.expires_at, a.created_by, a.created_at,
		       (ar.user_id IS NOT NULL) AS is_read
		FROM announcements a
		LEFT JOIN announcement_reads ar ON ar.announcement_id = a.id AND ar.user_id = $1
		WHERE %s
		ORDER BY a.is_pinned DESC, a.publish_at DESC, a.id DESC`, clause),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		err := rows.Scan(&a.ID, &a.Type, &a.Scope, &a.ScopeID, &a.Title, &a.Body, &a.IsPinned,
			&a.PublishAt, &a.ExpiresAt, &a.CreatedBy, &a.CreatedAt, &a.IsRead)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

// MarkRead inserts a read receipt; returns false when one already exists
func (r *announcementRepository) MarkRead(ctx context.Context, announcementID, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO announcement_reads (announcement_id, user_id, read_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (announcement_id, user_id) DO NOTHING`,
		announcementID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark announcement read: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

// IsRead reports whether the user has a read receipt
func (r *announcementRepository) IsRead(ctx context.Context, announcementID, userID int64) (bool, error) {
	var read bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM announcement_reads
			WHERE announcement_id = $1 AND user_id = $2
		)`,
		announcementID, userID,
	).Scan(&read)
	if err != nil {
		return false, fmt.Errorf("failed to check read receipt: %w", err)
	}
	return read, nil
}

// UnreadCount counts active, visible, unread announcements for the user
func (r *announcementRepository) UnreadCount(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) (int64, error) {
	clause, clauseArgs := visibilityClause(membership, now, 2)
	args := append([]interface{}{userID}, clauseArgs...)

	var count int64
	err := r.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM announcements a
		LEFT JOIN announcement_reads ar ON ar.announcement_id = a.id AND ar.user_id = $1
		WHERE ar.user_id IS NULL AND %s`, clause),
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread announcements: %w", err)
	}
	return count, nil
}

// Delete removes an announcement and its receipts
func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
