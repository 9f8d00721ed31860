package services

import (
	"time"

	"learnhub/internal/models"
)

// ===============================
// POINTS
// ===============================

// Recognized earn actions. Each maps to a configured point value; sessions
// additionally accrue per-minute points up to the configured cap.
const (
	ActionSessionComplete   = "session_complete"
	ActionQuizComplete      = "quiz_complete"
	ActionQuizPerfectScore  = "quiz_perfect_score"
	ActionQuizPassBonus     = "quiz_pass_bonus"
	ActionAssignmentSubmit  = "assignment_submit"
	ActionAssignmentOnTime  = "assignment_on_time"
	ActionAssignmentPerfect = "assignment_perfect"
	ActionTopicMastered     = "topic_mastered"
	ActionSubjectComplete   = "subject_complete"
	ActionStreakDaily       = "streak_daily"
	ActionStreakWeekly      = "streak_weekly"
	ActionStreakMonthly     = "streak_monthly"

	// ActionCommentPosted is credited by the social subsystem through
	// EarnBonus; it has no configured point value of its own.
	ActionCommentPosted = "comment_posted"
)

// EarnPointsRequest credits a user for a recognized action
type EarnPointsRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Action string `json:"action" validate:"required"`

	// SessionMinutes only applies to session_complete and is capped
	SessionMinutes int64 `json:"session_minutes,omitempty" validate:"gte=0"`
}

// SpendPointsRequest debits a user for a redemption
type SpendPointsRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=100"`
}

// PointsResult is the outcome of a ledger mutation
type PointsResult struct {
	Transaction *models.PointTransaction `json:"transaction"`
	Balance     *models.PointBalance     `json:"balance"`
	Level       models.LevelProgress     `json:"level"`
	LeveledUp   bool                     `json:"leveled_up"`
	OldLevel    int                      `json:"old_level,omitempty"`
}

// ===============================
// STREAKS
// ===============================

// RecordActivityRequest marks a user active on a calendar day
type RecordActivityRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

// StreakResult describes what an activity day did to the streak
type StreakResult struct {
	State         *models.StreakState     `json:"state"`
	Transition    models.StreakTransition `json:"transition"`
	FreezeUsed    bool                    `json:"freeze_used"`
	MilestoneHit  int                     `json:"milestone_hit,omitempty"`
	PointsAwarded int64                   `json:"points_awarded"`
}

// ===============================
// LEADERBOARD
// ===============================

// LeaderboardRequest selects one standing
type LeaderboardRequest struct {
	Scope   models.LeaderboardScope  `json:"scope" validate:"required,oneof=global school class"`
	ScopeID *int64                   `json:"scope_id,omitempty"`
	Period  models.LeaderboardPeriod `json:"period" validate:"required,oneof=all_time monthly weekly daily"`
	Limit   int                      `json:"limit,omitempty" validate:"gte=0"`
}

// ===============================
// ACTIVITY FEED
// ===============================

// RecordFeedItemRequest appends one feed item
type RecordFeedItemRequest struct {
	UserID   int64                  `json:"user_id" validate:"required,gt=0"`
	Type     string                 `json:"type" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	IsPublic bool                   `json:"is_public"`
}

// ===============================
// ANNOUNCEMENTS
// ===============================

// CreateAnnouncementRequest authors a broadcast message
type CreateAnnouncementRequest struct {
	Type      models.AnnouncementType  `json:"type" validate:"required,oneof=info success warning urgent"`
	Scope     models.AnnouncementScope `json:"scope" validate:"required,oneof=all school class"`
	ScopeID   *int64                   `json:"scope_id,omitempty"`
	Title     string                   `json:"title" validate:"required,max=200"`
	Body      string                   `json:"body" validate:"required,max=5000"`
	IsPinned  bool                     `json:"is_pinned"`
	PublishAt *time.Time               `json:"publish_at,omitempty"`
	ExpiresAt *time.Time               `json:"expires_at,omitempty"`
	CreatedBy int64                    `json:"created_by" validate:"required,gt=0"`
}
