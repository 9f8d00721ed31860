package models

import (
	"time"
)

// ===============================
// POINTS
// ===============================

// PointBalance is the per-user point bookkeeping record. CurrentBalance is
// derived and must always reconcile to TotalEarned - TotalSpent; spends that
// would drive it negative are rejected before any mutation.
type PointBalance struct {
	UserID         int64     `json:"user_id" db:"user_id"`
	TotalEarned    int64     `json:"total_earned" db:"total_earned"`
	TotalSpent     int64     `json:"total_spent" db:"total_spent"`
	CurrentBalance int64     `json:"current_balance" db:"current_balance"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// LifetimePoints is the cumulative earned total that feeds level derivation.
// Spending never reduces it.
func (b *PointBalance) LifetimePoints() int64 {
	return b.TotalEarned
}

// PointTransaction is an immutable ledger entry. Amount is signed: positive
// for earns, negative for spends. The ledger is the source of truth for the
// balance.
type PointTransaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Amount    int64     `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LevelProgress is the derived level position for a lifetime point total.
// Levels are never stored; they are recomputed on demand.
type LevelProgress struct {
	Level                 int   `json:"level"`
	PointsIntoLevel       int64 `json:"points_into_level"`
	PointsRequiredForNext int64 `json:"points_required_for_next"`
}

// ===============================
// STREAKS
// ===============================

// StreakState tracks consecutive-day activity per user.
// Invariant: LongestStreak >= CurrentStreak.
type StreakState struct {
	UserID           int64      `json:"user_id" db:"user_id"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date" db:"last_activity_date"`
	FreezesRemaining int        `json:"freezes_remaining" db:"freezes_remaining"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// StreakTransition describes what happened when an activity day was applied
type StreakTransition string

const (
	StreakStarted   StreakTransition = "started"
	StreakExtended  StreakTransition = "extended"
	StreakUnchanged StreakTransition = "unchanged"
	StreakFrozen    StreakTransition = "frozen"
	StreakReset     StreakTransition = "reset"
)

// ===============================
// LEADERBOARD
// ===============================

// LeaderboardScope is the population boundary a ranking applies to
type LeaderboardScope string

const (
	ScopeGlobal LeaderboardScope = "global"
	ScopeSchool LeaderboardScope = "school"
	ScopeClass  LeaderboardScope = "class"
)

// LeaderboardPeriod is the time window leaderboard points are summed over
type LeaderboardPeriod string

const (
	PeriodAllTime LeaderboardPeriod = "all_time"
	PeriodMonthly LeaderboardPeriod = "monthly"
	PeriodWeekly  LeaderboardPeriod = "weekly"
	PeriodDaily   LeaderboardPeriod = "daily"
)

// LeaderboardEntry is one ranked row, computed from the ledger.
// LastEarnedAt is the timestamp of the user's latest qualifying transaction
// in the window; it is the deterministic tie-breaker (earlier wins).
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Points       int64     `json:"points" db:"points"`
	LastEarnedAt time.Time `json:"-" db:"last_earned_at"`
}

// Leaderboard is a full standing for one (scope, scopeID, period)
type Leaderboard struct {
	Scope       LeaderboardScope  `json:"scope"`
	ScopeID     *int64            `json:"scope_id,omitempty"`
	Period      LeaderboardPeriod `json:"period"`
	Entries     []LeaderboardEntry `json:"entries"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ScopeMembership carries the opaque scope identifiers the identity
// subsystem supplies for a user
type ScopeMembership struct {
	UserID   int64  `json:"user_id" db:"user_id"`
	SchoolID *int64 `json:"school_id,omitempty" db:"school_id"`
	ClassID  *int64 `json:"class_id,omitempty" db:"class_id"`
}

// ===============================
// ACTIVITY FEED
// ===============================

// Feed item types
const (
	ActivityBadgeEarned         = "badge_earned"
	ActivityStreakMilestone     = "streak_milestone"
	ActivityQuizCompleted       = "quiz_completed"
	ActivityLevelUp             = "level_up"
	ActivityAssignmentSubmitted = "assignment_submitted"
	ActivitySessionCompleted    = "session_completed"
)

// ActivityFeedItem is an append-only, user-visible record of a notable
// event. Metadata is opaque: stored and returned verbatim, never
// interpreted by the feed.
type ActivityFeedItem struct {
	ID        int64                  `json:"id" db:"id"`
	UserID    int64                  `json:"user_id" db:"user_id"`
	Type      string                 `json:"type" db:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	IsPublic  bool                   `json:"is_public" db:"is_public"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// ValidActivityType reports whether t is a recognized feed item type
func ValidActivityType(t string) bool {
	switch t {
	case ActivityBadgeEarned, ActivityStreakMilestone, ActivityQuizCompleted,
		ActivityLevelUp, ActivityAssignmentSubmitted, ActivitySessionCompleted:
		return true
	}
	return false
}

// ===============================
// ANNOUNCEMENTS
// ===============================

// AnnouncementType signals the visual severity of an announcement
type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementSuccess AnnouncementType = "success"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementUrgent  AnnouncementType = "urgent"
)

// AnnouncementScope mirrors leaderboard scoping for broadcast targeting
type AnnouncementScope string

const (
	AnnounceAll    AnnouncementScope = "all"
	AnnounceSchool AnnouncementScope = "school"
	AnnounceClass  AnnouncementScope = "class"
)

// Announcement is an authored broadcast message. It becomes visible at
// PublishAt and inactive once now > ExpiresAt (nil means never expires).
type Announcement struct {
	ID        int64             `json:"id" db:"id"`
	Type      AnnouncementType  `json:"type" db:"type"`
	Scope     AnnouncementScope `json:"scope" db:"scope"`
	ScopeID   *int64            `json:"scope_id,omitempty" db:"scope_id"`
	Title     string            `json:"title" db:"title"`
	Body      string            `json:"body" db:"body"`
	IsPinned  bool              `json:"is_pinned" db:"is_pinned"`
	PublishAt time.Time         `json:"publish_at" db:"publish_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty" db:"expires_at"`
	CreatedBy int64             `json:"created_by" db:"created_by"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	// IsRead is populated on per-user listings
	IsRead bool `json:"is_read" db:"is_read"`
}

// IsActive reports whether the announcement is visible at the given instant
func (a *Announcement) IsActive(now time.Time) bool {
	if now.Before(a.PublishAt) {
		return false
	}
	if a.ExpiresAt != nil && now.After(*a.ExpiresAt) {
		return false
	}
	return true
}

// ReadReceipt records that a user has read an announcement. At most one
// receipt exists per (announcement, user).
type ReadReceipt struct {
	AnnouncementID int64     `json:"announcement_id" db:"announcement_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	ReadAt         time.Time `json:"read_at" db:"read_at"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams carries offset pagination inputs
type PaginationParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PaginationMeta describes one page of a larger result set
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// PaginatedResponse wraps a page of results with its metadata
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}
