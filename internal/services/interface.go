package services

import (
	"context"

	"learnhub/internal/models"
)

// PointsService owns the point ledger, balances, and derived levels
type PointsService interface {
	// Earn credits the user for a recognized action. Unknown actions are
	// rejected before any mutation.
	Earn(ctx context.Context, req EarnPointsRequest) (*PointsResult, error)

	// EarnBonus credits a raw amount on behalf of another gamification
	// component (streak bonuses, badge rewards).
	EarnBonus(ctx context.Context, userID, amount int64, reason string) (*PointsResult, error)

	// Spend debits the user, rejecting spends the balance cannot cover
	Spend(ctx context.Context, req SpendPointsRequest) (*PointsResult, error)

	// GetBalance returns the user's balance, zero-valued for new users
	GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error)

	// GetLevel derives the user's level from lifetime earned points
	GetLevel(ctx context.Context, userID int64) (*models.LevelProgress, error)

	// GetTransactions pages through the user's ledger, newest first
	GetTransactions(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.PointTransaction], error)
}

// StreakService tracks consecutive-day activity
type StreakService interface {
	// RecordActivity applies one activity day to the user's streak.
	// Same-day repeats are no-ops; activity dated before the last recorded
	// day is rejected.
	RecordActivity(ctx context.Context, req RecordActivityRequest) (*StreakResult, error)

	// GetStreak returns the user's streak state, zero-valued for new users
	GetStreak(ctx context.Context, userID int64) (*models.StreakState, error)

	// GrantFreeze adds one streak freeze to the user's allowance
	GrantFreeze(ctx context.Context, userID int64) (int, error)
}

// BadgeService evaluates the badge catalog against user accomplishments
type BadgeService interface {
	// Evaluate checks every active catalog entry the user does not hold yet
	// and awards those whose criteria are met. Returns only new awards.
	Evaluate(ctx context.Context, userID int64) ([]*models.BadgeAward, error)

	// GetCatalog returns the active badge catalog
	GetCatalog(ctx context.Context) ([]*models.Badge, error)

	// GetUserBadges returns the user's earned badges, newest first
	GetUserBadges(ctx context.Context, userID int64) ([]*models.BadgeAward, error)
}

// LeaderboardService computes ranked standings from the ledger
type LeaderboardService interface {
	// GetLeaderboard returns the standing for one scope and period,
	// served from cache when fresh.
	GetLeaderboard(ctx context.Context, req LeaderboardRequest) (*models.Leaderboard, error)
}

// ActivityService owns the append-only activity feed
type ActivityService interface {
	// Record appends one feed item after validating its type
	Record(ctx context.Context, req RecordFeedItemRequest) (*models.ActivityFeedItem, error)

	// GetFeed pages through a user's feed newest first. Private items are
	// visible only when the viewer is the owner.
	GetFeed(ctx context.Context, userID int64, viewerIsOwner bool, params models.PaginationParams) (*models.PaginatedResponse[*models.ActivityFeedItem], error)
}

// AnnouncementService owns authored broadcasts and read receipts
type AnnouncementService interface {
	// Create stores an announcement after validating its scope targeting
	Create(ctx context.Context, req CreateAnnouncementRequest) (*models.Announcement, error)

	// Get returns one announcement by id
	Get(ctx context.Context, id int64) (*models.Announcement, error)

	// Update replaces an announcement's content and scheduling, applying
	// the same scope and window validation as Create.
	Update(ctx context.Context, id int64, req CreateAnnouncementRequest) (*models.Announcement, error)

	// List returns announcements currently visible to the user, pinned
	// first, with read state populated.
	List(ctx context.Context, userID int64) ([]*models.Announcement, error)

	// MarkRead records that the user has read the announcement; repeats
	// are no-ops.
	MarkRead(ctx context.Context, announcementID, userID int64) error

	// UnreadCount counts visible announcements the user has not read
	UnreadCount(ctx context.Context, userID int64) (int64, error)

	// Delete removes an announcement and its read receipts
	Delete(ctx context.Context, id int64) error
}
