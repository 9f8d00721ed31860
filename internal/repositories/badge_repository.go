package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository over postgres
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// SeedCatalog upserts catalog entries by code. Run at startup so the
// declarative default catalog and the stored catalog stay in sync.
func (r *badgeRepository) SeedCatalog(ctx context.Context, badges []models.Badge) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, b := range badges {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO badges (code, name, description, icon, category, tier, points, criteria_type, criteria_value, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
				ON CONFLICT (code) DO UPDATE SET
					name = $2,
					description = $3,
					icon = $4,
					category = $5,
					tier = $6,
					points = $7,
					criteria_type = $8,
					criteria_value = $9,
					is_active = $10`,
				b.Code, b.Name, b.Description, b.Icon, b.Category, b.Tier,
				b.Points, b.CriteriaType, b.CriteriaValue, b.IsActive,
			)
			if err != nil {
				return fmt.Errorf("failed to seed badge %s: %w", b.Code, err)
			}
		}
		return nil
	})
}

// ListCatalog returns active catalog entries
func (r *badgeRepository) ListCatalog(ctx context.Context) ([]*models.Badge, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, code, name, description, icon, category, tier, points, criteria_type, criteria_value, is_active, created_at
		FROM badges
		WHERE is_active = TRUE
		ORDER BY category, criteria_type, criteria_value`)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge catalog: %w", err)
	}
	defer rows.Close()

	return scanBadges(rows)
}

// GetByCode returns a catalog entry or ErrNotFound
func (r *badgeRepository) GetByCode(ctx context.Context, code string) (*models.Badge, error) {
	b := &models.Badge{}
	err := r.QueryRowContext(ctx, `
		SELECT id, code, name, description, icon, category, tier, points, criteria_type, criteria_value, is_active, created_at
		FROM badges
		WHERE code = $1`,
		code,
	).Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Tier,
		&b.Points, &b.CriteriaType, &b.CriteriaValue, &b.IsActive, &b.CreatedAt)
	if r.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge %s: %w", code, err)
	}
	return b, nil
}

// ListAwardedCodes returns the set of badge codes the user holds
func (r *badgeRepository) ListAwardedCodes(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT badge_code FROM badge_awards WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list awarded codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan badge code: %w", err)
		}
		codes[code] = true
	}
	return codes, rows.Err()
}

// ListAwards returns the user's awards joined with their catalog entries,
// newest first
func (r *badgeRepository) ListAwards(ctx context.Context, userID int64) ([]*models.BadgeAward, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT a.user_id, a.badge_code, a.awarded_at,
		       b.id, b.code, b.name, b.description, b.icon, b.category, b.tier, b.points, b.criteria_type, b.criteria_value, b.is_active, b.created_at
		FROM badge_awards a
		JOIN badges b ON b.code = a.badge_code
		WHERE a.user_id = $1
		ORDER BY a.awarded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge awards: %w", err)
	}
	defer rows.Close()

	var awards []*models.BadgeAward
	for rows.Next() {
		award := &models.BadgeAward{Badge: &models.Badge{}}
		b := award.Badge
		err := rows.Scan(&award.UserID, &award.BadgeCode, &award.AwardedAt,
			&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Tier,
			&b.Points, &b.CriteriaType, &b.CriteriaValue, &b.IsActive, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge award: %w", err)
		}
		awards = append(awards, award)
	}
	return awards, rows.Err()
}

// Award records the badge for the user. The primary key on
// (user_id, badge_code) makes duplicate awards a no-op.
func (r *badgeRepository) Award(ctx context.Context, userID int64, badgeCode string) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO badge_awards (user_id, badge_code, awarded_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, badge_code) DO NOTHING`,
		userID, badgeCode,
	)
	if err != nil {
		return false, fmt.Errorf("failed to award badge %s: %w", badgeCode, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

func scanBadges(rows *sql.Rows) ([]*models.Badge, error) {
	var badges []*models.Badge
	for rows.Next() {
		b := &models.Badge{}
		err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Tier,
			&b.Points, &b.CriteriaType, &b.CriteriaValue, &b.IsActive, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
