package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"learnhub/internal/database"
	"learnhub/internal/models"

	"go.uber.org/zap"
)

// streakRepository implements StreakRepository over postgres
type streakRepository struct {
	*BaseRepository
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *database.Manager, logger *zap.Logger) StreakRepository {
	return &streakRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Get returns the streak state, or nil when the user has none yet
func (r *streakRepository) Get(ctx context.Context, userID int64) (*models.StreakState, error) {
	state := &models.StreakState{UserID: userID}

	err := r.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_activity_date, freezes_remaining, updated_at
		FROM streak_states
		WHERE user_id = $1`,
		userID,
	).Scan(&state.CurrentStreak, &state.LongestStreak, &state.LastActivityDate, &state.FreezesRemaining, &state.UpdatedAt)
	if r.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	return state, nil
}

// Mutate applies fn to the row-locked state and persists the result.
// Concurrent activity submissions for the same user serialize on the lock,
// which is what keeps same-day idempotence honest under two devices.
func (r *streakRepository) Mutate(ctx context.Context, userID int64, fn func(*models.StreakState) (*models.StreakState, error)) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var current *models.StreakState

		state := &models.StreakState{UserID: userID}
		err := tx.QueryRowContext(ctx, `
			SELECT current_streak, longest_streak, last_activity_date, freezes_remaining, updated_at
			FROM streak_states
			WHERE user_id = $1
			FOR UPDATE`,
			userID,
		).Scan(&state.CurrentStreak, &state.LongestStreak, &state.LastActivityDate, &state.FreezesRemaining, &state.UpdatedAt)
		switch {
		case err == sql.ErrNoRows:
			current = nil
		case err != nil:
			return fmt.Errorf("failed to lock streak state: %w", err)
		default:
			current = state
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			// No change requested
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO streak_states (user_id, current_streak, longest_streak, last_activity_date, freezes_remaining, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				current_streak = $2,
				longest_streak = $3,
				last_activity_date = $4,
				freezes_remaining = $5,
				updated_at = NOW()`,
			userID, next.CurrentStreak, next.LongestStreak, next.LastActivityDate, next.FreezesRemaining,
		)
		if err != nil {
			return fmt.Errorf("failed to save streak state: %w", err)
		}

		return nil
	})
}

// GrantFreeze increments the freeze allowance, creating the row if needed
func (r *streakRepository) GrantFreeze(ctx context.Context, userID int64) (int, error) {
	var remaining int

	err := r.QueryRowContext(ctx, `
		INSERT INTO streak_states (user_id, current_streak, longest_streak, last_activity_date, freezes_remaining, updated_at)
		VALUES ($1, 0, 0, NULL, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			freezes_remaining = streak_states.freezes_remaining + 1,
			updated_at = NOW()
		RETURNING freezes_remaining`,
		userID,
	).Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("failed to grant freeze: %w", err)
	}

	return remaining, nil
}
