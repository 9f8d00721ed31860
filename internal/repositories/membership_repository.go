package repositories

import (
	"context"
	"fmt"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// membershipRepository implements MembershipRepository over postgres
type membershipRepository struct {
	*BaseRepository
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *database.Manager, logger *zap.Logger) MembershipRepository {
	return &membershipRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Get returns the user's membership. A user with no row belongs only to
// the global scope.
func (r *membershipRepository) Get(ctx context.Context, userID int64) (*models.ScopeMembership, error) {
	m := &models.ScopeMembership{UserID: userID}

	err := r.QueryRowContext(ctx, `
		SELECT school_id, class_id
		FROM scope_memberships
		WHERE user_id = $1`,
		userID,
	).Scan(&m.SchoolID, &m.ClassID)
	if r.IsNotFound(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scope membership: %w", err)
	}

	return m, nil
}

// Set upserts the user's membership
func (r *membershipRepository) Set(ctx context.Context, m *models.ScopeMembership) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO scope_memberships (user_id, school_id, class_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			school_id = $2,
			class_id = $3,
			updated_at = NOW()`,
		m.UserID, m.SchoolID, m.ClassID,
	)
	if err != nil {
		return fmt.Errorf("failed to set scope membership: %w", err)
	}
	return nil
}
