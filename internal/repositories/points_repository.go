package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// pointsRepository implements PointsRepository over postgres
type pointsRepository struct {
	*BaseRepository
}

// NewPointsRepository creates a new points repository
func NewPointsRepository(db *database.Manager, logger *zap.Logger) PointsRepository {
	return &pointsRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Earn appends a positive ledger entry and bumps the balance atomically
func (r *pointsRepository) Earn(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("earn amount must be positive, got %d", amount)
	}

	txn := &models.PointTransaction{
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}
	balance := &models.PointBalance{UserID: userID}

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO point_balances (user_id, total_earned, total_spent, current_balance, updated_at)
			VALUES ($1, $2, 0, $2, NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				total_earned = point_balances.total_earned + $2,
				current_balance = point_balances.current_balance + $2,
				updated_at = NOW()
			RETURNING total_earned, total_spent, current_balance, updated_at`,
			userID, amount,
		).Scan(&balance.TotalEarned, &balance.TotalSpent, &balance.CurrentBalance, &balance.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO point_transactions (user_id, amount, reason, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at`,
			userID, amount, reason,
		).Scan(&txn.ID, &txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return txn, balance, nil
}

// Spend appends a negative ledger entry if and only if the balance covers it
func (r *pointsRepository) Spend(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("spend amount must be positive, got %d", amount)
	}

	txn := &models.PointTransaction{
		UserID: userID,
		Amount: -amount,
		Reason: reason,
	}
	balance := &models.PointBalance{UserID: userID}

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Guarded update: the WHERE clause enforces the non-negative
		// balance invariant under concurrent spends.
		err := tx.QueryRowContext(ctx, `
			UPDATE point_balances SET
				total_spent = total_spent + $2,
				current_balance = current_balance - $2,
				updated_at = NOW()
			WHERE user_id = $1 AND current_balance >= $2
			RETURNING total_earned, total_spent, current_balance, updated_at`,
			userID, amount,
		).Scan(&balance.TotalEarned, &balance.TotalSpent, &balance.CurrentBalance, &balance.UpdatedAt)
		if err == sql.ErrNoRows {
			return ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO point_transactions (user_id, amount, reason, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at`,
			userID, -amount, reason,
		).Scan(&txn.ID, &txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return txn, balance, nil
}

// GetBalance returns the balance row, or a zero balance when none exists
func (r *pointsRepository) GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error) {
	balance := &models.PointBalance{UserID: userID}

	err := r.QueryRowContext(ctx, `
		SELECT total_earned, total_spent, current_balance, updated_at
		FROM point_balances
		WHERE user_id = $1`,
		userID,
	).Scan(&balance.TotalEarned, &balance.TotalSpent, &balance.CurrentBalance, &balance.UpdatedAt)
	if r.IsNotFound(err) {
		// A user with no transactions has an implicit zero balance
		return balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// ListTransactions returns the user's ledger entries, newest first
func (r *pointsRepository) ListTransactions(ctx context.Context, userID int64, params models.PaginationParams) ([]*models.PointTransaction, int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM point_transactions WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := r.QueryContext(ctx, `
		SELECT id, user_id, amount, reason, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.PointTransaction
	for rows.Next() {
		txn := &models.PointTransaction{}
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Reason, &txn.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// CountByReason counts the user's positive ledger entries with the given reason
func (r *pointsRepository) CountByReason(ctx context.Context, userID int64, reason string) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM point_transactions
		WHERE user_id = $1 AND reason = $2 AND amount > 0`,
		userID, reason,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions by reason: %w", err)
	}
	return count, nil
}

// TopEarners sums positive transactions per user within scope and window.
// Ordering is fully deterministic: points desc, then the user whose final
// qualifying earn happened earliest, then user id.
func (r *pointsRepository) TopEarners(ctx context.Context, scope models.LeaderboardScope, scopeID *int64, since *time.Time, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT t.user_id, SUM(t.amount) AS points, MAX(t.created_at) AS last_earned_at
		FROM point_transactions t`
	args := []interface{}{}
	argIndex := 1

	switch scope {
	case models.ScopeSchool:
		query += fmt.Sprintf(`
		JOIN scope_memberships sm ON sm.user_id = t.user_id AND sm.school_id = $%d`, argIndex)
		args = append(args, *scopeID)
		argIndex++
	case models.ScopeClass:
		query += fmt.Sprintf(`
		JOIN scope_memberships sm ON sm.user_id = t.user_id AND sm.class_id = $%d`, argIndex)
		args = append(args, *scopeID)
		argIndex++
	}

	query += `
		WHERE t.amount > 0`
	if since != nil {
		query += fmt.Sprintf(" AND t.created_at >= $%d", argIndex)
		args = append(args, *since)
		argIndex++
	}

	query += fmt.Sprintf(`
		GROUP BY t.user_id
		ORDER BY points DESC, last_earned_at ASC, t.user_id ASC
		LIMIT $%d`, argIndex)
	args = append(args, limit)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top earners: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Points, &e.LastEarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
