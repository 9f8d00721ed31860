package events

import "time"

// Event types published by the gamification services
const (
	EventPointsEarned      = "points.earned"
	EventPointsSpent       = "points.spent"
	EventLevelUp           = "points.level_up"
	EventBadgeAwarded      = "badges.awarded"
	EventStreakExtended    = "streaks.extended"
	EventStreakBroken      = "streaks.broken"
	EventStreakMilestone   = "streaks.milestone"
	EventAnnouncementSent  = "announcements.published"
)

// PointsEarnedEvent is emitted after an earn transaction commits
type PointsEarnedEvent struct {
	BaseEvent
	TransactionID int64  `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
	NewBalance    int64  `json:"new_balance"`
	LifetimeTotal int64  `json:"lifetime_total"`
}

// NewPointsEarnedEvent creates a points earned event
func NewPointsEarnedEvent(userID, transactionID, amount int64, reason string, newBalance, lifetimeTotal int64) *PointsEarnedEvent {
	return &PointsEarnedEvent{
		BaseEvent:     newBaseEvent(EventPointsEarned, userID),
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        reason,
		NewBalance:    newBalance,
		LifetimeTotal: lifetimeTotal,
	}
}

// PointsSpentEvent is emitted after a spend transaction commits
type PointsSpentEvent struct {
	BaseEvent
	TransactionID int64  `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
	NewBalance    int64  `json:"new_balance"`
}

// NewPointsSpentEvent creates a points spent event
func NewPointsSpentEvent(userID, transactionID, amount int64, reason string, newBalance int64) *PointsSpentEvent {
	return &PointsSpentEvent{
		BaseEvent:     newBaseEvent(EventPointsSpent, userID),
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        reason,
		NewBalance:    newBalance,
	}
}

// LevelUpEvent is emitted when an earn pushes a user past a level threshold
type LevelUpEvent struct {
	BaseEvent
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// NewLevelUpEvent creates a level up event
func NewLevelUpEvent(userID int64, oldLevel, newLevel int) *LevelUpEvent {
	return &LevelUpEvent{
		BaseEvent: newBaseEvent(EventLevelUp, userID),
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}
}

// BadgeAwardedEvent is emitted when the evaluator awards a new badge
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeCode string `json:"badge_code"`
	Tier      string `json:"tier"`
	Points    int64  `json:"points"`
}

// NewBadgeAwardedEvent creates a badge awarded event
func NewBadgeAwardedEvent(userID int64, badgeCode, tier string, points int64) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent: newBaseEvent(EventBadgeAwarded, userID),
		BadgeCode: badgeCode,
		Tier:      tier,
		Points:    points,
	}
}

// StreakExtendedEvent is emitted when a streak grows by a day
type StreakExtendedEvent struct {
	BaseEvent
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	FreezeUsed    bool `json:"freeze_used"`
}

// NewStreakExtendedEvent creates a streak extended event
func NewStreakExtendedEvent(userID int64, currentStreak, longestStreak int, freezeUsed bool) *StreakExtendedEvent {
	return &StreakExtendedEvent{
		BaseEvent:     newBaseEvent(EventStreakExtended, userID),
		CurrentStreak: currentStreak,
		LongestStreak: longestStreak,
		FreezeUsed:    freezeUsed,
	}
}

// StreakBrokenEvent is emitted when a gap resets a streak
type StreakBrokenEvent struct {
	BaseEvent
	PreviousStreak int `json:"previous_streak"`
}

// NewStreakBrokenEvent creates a streak broken event
func NewStreakBrokenEvent(userID int64, previousStreak int) *StreakBrokenEvent {
	return &StreakBrokenEvent{
		BaseEvent:      newBaseEvent(EventStreakBroken, userID),
		PreviousStreak: previousStreak,
	}
}

// StreakMilestoneEvent is emitted when a streak reaches a configured milestone
type StreakMilestoneEvent struct {
	BaseEvent
	Milestone int `json:"milestone"`
}

// NewStreakMilestoneEvent creates a streak milestone event
func NewStreakMilestoneEvent(userID int64, milestone int) *StreakMilestoneEvent {
	return &StreakMilestoneEvent{
		BaseEvent: newBaseEvent(EventStreakMilestone, userID),
		Milestone: milestone,
	}
}

// AnnouncementPublishedEvent is emitted when an announcement is created
type AnnouncementPublishedEvent struct {
	BaseEvent
	AnnouncementID int64     `json:"announcement_id"`
	Scope          string    `json:"scope"`
	PublishAt      time.Time `json:"publish_at"`
}

// NewAnnouncementPublishedEvent creates an announcement published event
func NewAnnouncementPublishedEvent(authorID, announcementID int64, scope string, publishAt time.Time) *AnnouncementPublishedEvent {
	return &AnnouncementPublishedEvent{
		BaseEvent:      newBaseEvent(EventAnnouncementSent, authorID),
		AnnouncementID: announcementID,
		Scope:          scope,
		PublishAt:      publishAt,
	}
}
