package repositories

import (
	"context"
	"errors"
	"time"

	"learnhub/internal/models"
)

// Sentinel errors returned by repositories. Services translate these into
// the user-facing error taxonomy.
var (
	// ErrInsufficientBalance is returned when a spend would drive the
	// balance negative. Nothing is written.
	ErrInsufficientBalance = errors.New("insufficient point balance")

	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("record not found")
)

// PointsRepository is the append-only ledger plus the derived balance row
type PointsRepository interface {
	// Earn appends a positive transaction and updates the balance in one
	// database transaction. Returns the transaction and the updated balance.
	Earn(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error)

	// Spend appends a negative transaction and updates the balance in one
	// database transaction. Returns ErrInsufficientBalance without writing
	// anything when the balance cannot cover the amount.
	Spend(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error)

	// GetBalance returns the balance row, or a zero balance for users with
	// no transactions yet.
	GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error)

	// ListTransactions returns the user's ledger entries, newest first
	ListTransactions(ctx context.Context, userID int64, params models.PaginationParams) ([]*models.PointTransaction, int64, error)

	// CountByReason counts the user's positive ledger entries with the given
	// reason; the badge evaluator derives accomplishment counters from it.
	CountByReason(ctx context.Context, userID int64, reason string) (int64, error)

	// TopEarners sums positive transactions per user within the scope and
	// window and returns unranked rows ordered by the deterministic
	// comparator: points desc, earliest last-earn first, then user id.
	// A nil since means no lower time bound.
	TopEarners(ctx context.Context, scope models.LeaderboardScope, scopeID *int64, since *time.Time, limit int) ([]models.LeaderboardEntry, error)
}

// StreakRepository persists per-user streak state
type StreakRepository interface {
	// Get returns the streak state, or nil when the user has none yet
	Get(ctx context.Context, userID int64) (*models.StreakState, error)

	// Mutate loads the state under a row lock, applies fn, and persists the
	// result in the same database transaction. fn receives nil when no state
	// exists yet and returns the state to store; returning an error rolls
	// everything back with no state change.
	Mutate(ctx context.Context, userID int64, fn func(*models.StreakState) (*models.StreakState, error)) error

	// GrantFreeze increments the user's freeze allowance, creating the
	// state row if needed. Returns the new allowance.
	GrantFreeze(ctx context.Context, userID int64) (int, error)
}

// BadgeRepository stores the badge catalog and per-user awards
type BadgeRepository interface {
	// SeedCatalog upserts catalog entries by code; safe to run at startup
	SeedCatalog(ctx context.Context, badges []models.Badge) error

	// ListCatalog returns active catalog entries ordered by category, tier
	ListCatalog(ctx context.Context) ([]*models.Badge, error)

	// GetByCode returns a catalog entry or ErrNotFound
	GetByCode(ctx context.Context, code string) (*models.Badge, error)

	// ListAwardedCodes returns the set of badge codes the user holds
	ListAwardedCodes(ctx context.Context, userID int64) (map[string]bool, error)

	// ListAwards returns the user's awards joined with their catalog entries
	ListAwards(ctx context.Context, userID int64) ([]*models.BadgeAward, error)

	// Award records the badge for the user. Returns false without error when
	// the user already holds the badge (duplicate awards are no-ops).
	Award(ctx context.Context, userID int64, badgeCode string) (bool, error)
}

// ActivityRepository is the append-only activity feed store
type ActivityRepository interface {
	// Insert appends a feed item, populating ID and CreatedAt
	Insert(ctx context.Context, item *models.ActivityFeedItem) error

	// ListByUser returns the user's feed newest first. Private items are
	// included only when includePrivate is set.
	ListByUser(ctx context.Context, userID int64, includePrivate bool, params models.PaginationParams) ([]*models.ActivityFeedItem, int64, error)
}

// AnnouncementRepository stores announcements and read receipts
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error

	// GetByID returns the announcement or ErrNotFound
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)

	// Update rewrites content and scheduling fields; ErrNotFound when absent
	Update(ctx context.Context, a *models.Announcement) error

	// ListVisible returns active announcements visible to the membership at
	// the given instant, pinned first then publish time descending, with
	// IsRead populated for the user.
	ListVisible(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) ([]*models.Announcement, error)

	// MarkRead inserts a read receipt; returns false when one already exists
	MarkRead(ctx context.Context, announcementID, userID int64) (bool, error)

	// IsRead reports whether the user has a read receipt
	IsRead(ctx context.Context, announcementID, userID int64) (bool, error)

	// UnreadCount counts active, visible, unread announcements for the user
	UnreadCount(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) (int64, error)

	// Delete removes an announcement and its receipts; ErrNotFound when absent
	Delete(ctx context.Context, id int64) error
}

// MembershipRepository stores the scope identifiers supplied by the
// identity subsystem. The ids are opaque to this service.
type MembershipRepository interface {
	// Get returns the user's membership; a user with no row belongs only to
	// the global scope.
	Get(ctx context.Context, userID int64) (*models.ScopeMembership, error)

	// Set upserts the user's membership
	Set(ctx context.Context, m *models.ScopeMembership) error
}
