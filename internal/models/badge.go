package models

import "time"

// BadgeCategory groups badges by the kind of accomplishment they recognize
type BadgeCategory string

const (
	BadgeCategoryAchievement BadgeCategory = "achievement"
	BadgeCategoryStreak      BadgeCategory = "streak"
	BadgeCategoryMastery     BadgeCategory = "mastery"
	BadgeCategorySocial      BadgeCategory = "social"
	BadgeCategorySpecial     BadgeCategory = "special"
)

// BadgeTier orders badges within a family. Tiers form a strict total order
// bronze < silver < gold < platinum < diamond.
type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
	TierDiamond  BadgeTier = "diamond"
)

// TierRank returns the position of a tier in the total order (bronze=1)
func TierRank(t BadgeTier) int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	case TierDiamond:
		return 5
	}
	return 0
}

// Criteria types understood by the badge evaluator. The catalog is data;
// the evaluator only knows how to compare these counters to a threshold.
const (
	CriteriaSessionsCompleted = "sessions_completed"
	CriteriaStreakDays        = "streak_days"
	CriteriaLifetimePoints    = "lifetime_points"
	CriteriaTopicsMastered    = "topics_mastered"
	CriteriaPerfectQuizzes    = "perfect_quizzes"
	CriteriaQuizzesCompleted  = "quizzes_completed"
	CriteriaCommentsPosted    = "comments_posted"
)

// Badge is a catalog entry users can earn by reaching the configured
// criteria. Code is unique across the catalog.
type Badge struct {
	ID            int64         `json:"id" db:"id"`
	Code          string        `json:"code" db:"code"`
	Name          string        `json:"name" db:"name"`
	Description   string        `json:"description" db:"description"`
	Icon          string        `json:"icon" db:"icon"`
	Category      BadgeCategory `json:"category" db:"category"`
	Tier          BadgeTier     `json:"tier" db:"tier"`
	Points        int64         `json:"points" db:"points"`
	CriteriaType  string        `json:"criteria_type" db:"criteria_type"`
	CriteriaValue int64         `json:"criteria_value" db:"criteria_value"`
	IsActive      bool          `json:"is_active" db:"is_active"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// BadgeAward is a user's earned badge. (UserID, BadgeCode) is unique:
// a badge can be earned at most once.
type BadgeAward struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	BadgeCode string    `json:"badge_code" db:"badge_code"`
	AwardedAt time.Time `json:"awarded_at" db:"awarded_at"`

	// Badge is populated on listings that join the catalog
	Badge *Badge `json:"badge,omitempty"`
}
