package services

import "learnhub/internal/models"

// DefaultCatalog is the stock badge catalog, seeded at startup. The catalog
// is pure data: each entry names a criteria counter and a threshold, and the
// evaluator compares counters to thresholds without knowing badge semantics.
// Within a family, thresholds and reward points both increase with tier.
func DefaultCatalog() []models.Badge {
	return []models.Badge{
		// Learning sessions
		{
			Code: "first_session", Name: "First Steps",
			Description: "Complete your first learning session",
			Icon:        "footprints",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierBronze,
			Points:       10,
			CriteriaType: models.CriteriaSessionsCompleted, CriteriaValue: 1,
			IsActive: true,
		},
		{
			Code: "sessions_10", Name: "Getting Going",
			Description: "Complete 10 learning sessions",
			Icon:        "rocket",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierSilver,
			Points:       25,
			CriteriaType: models.CriteriaSessionsCompleted, CriteriaValue: 10,
			IsActive: true,
		},
		{
			Code: "sessions_50", Name: "Dedicated Learner",
			Description: "Complete 50 learning sessions",
			Icon:        "medal",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierGold,
			Points:       75,
			CriteriaType: models.CriteriaSessionsCompleted, CriteriaValue: 50,
			IsActive: true,
		},
		{
			Code: "sessions_100", Name: "Century Scholar",
			Description: "Complete 100 learning sessions",
			Icon:        "trophy",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierPlatinum,
			Points:       150,
			CriteriaType: models.CriteriaSessionsCompleted, CriteriaValue: 100,
			IsActive: true,
		},

		// Streaks
		{
			Code: "streak_7", Name: "One Week Strong",
			Description: "Keep a 7 day learning streak",
			Icon:        "flame",
			Category:    models.BadgeCategoryStreak, Tier: models.TierSilver,
			Points:       25,
			CriteriaType: models.CriteriaStreakDays, CriteriaValue: 7,
			IsActive: true,
		},
		{
			Code: "streak_30", Name: "Monthly Momentum",
			Description: "Keep a 30 day learning streak",
			Icon:        "fire",
			Category:    models.BadgeCategoryStreak, Tier: models.TierGold,
			Points:       100,
			CriteriaType: models.CriteriaStreakDays, CriteriaValue: 30,
			IsActive: true,
		},
		{
			Code: "streak_100", Name: "Unstoppable",
			Description: "Keep a 100 day learning streak",
			Icon:        "comet",
			Category:    models.BadgeCategoryStreak, Tier: models.TierDiamond,
			Points:       250,
			CriteriaType: models.CriteriaStreakDays, CriteriaValue: 100,
			IsActive: true,
		},

		// Lifetime points
		{
			Code: "points_500", Name: "Point Collector",
			Description: "Earn 500 lifetime points",
			Icon:        "coins",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierBronze,
			Points:       20,
			CriteriaType: models.CriteriaLifetimePoints, CriteriaValue: 500,
			IsActive: true,
		},
		{
			Code: "points_2500", Name: "Point Hoarder",
			Description: "Earn 2,500 lifetime points",
			Icon:        "treasure-chest",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierSilver,
			Points:       50,
			CriteriaType: models.CriteriaLifetimePoints, CriteriaValue: 2500,
			IsActive: true,
		},
		{
			Code: "points_10000", Name: "Point Tycoon",
			Description: "Earn 10,000 lifetime points",
			Icon:        "crown",
			Category:    models.BadgeCategoryAchievement, Tier: models.TierGold,
			Points:       150,
			CriteriaType: models.CriteriaLifetimePoints, CriteriaValue: 10000,
			IsActive: true,
		},

		// Mastery
		{
			Code: "topics_5", Name: "Topic Tamer",
			Description: "Master 5 topics",
			Icon:        "book",
			Category:    models.BadgeCategoryMastery, Tier: models.TierBronze,
			Points:       25,
			CriteriaType: models.CriteriaTopicsMastered, CriteriaValue: 5,
			IsActive: true,
		},
		{
			Code: "topics_25", Name: "Subject Sage",
			Description: "Master 25 topics",
			Icon:        "graduation-cap",
			Category:    models.BadgeCategoryMastery, Tier: models.TierGold,
			Points:       100,
			CriteriaType: models.CriteriaTopicsMastered, CriteriaValue: 25,
			IsActive: true,
		},

		// Quizzes
		{
			Code: "quizzes_10", Name: "Quiz Taker",
			Description: "Complete 10 quizzes",
			Icon:        "pencil",
			Category:    models.BadgeCategoryMastery, Tier: models.TierBronze,
			Points:       20,
			CriteriaType: models.CriteriaQuizzesCompleted, CriteriaValue: 10,
			IsActive: true,
		},
		{
			Code: "quizzes_50", Name: "Quiz Veteran",
			Description: "Complete 50 quizzes",
			Icon:        "scroll",
			Category:    models.BadgeCategoryMastery, Tier: models.TierSilver,
			Points:       60,
			CriteriaType: models.CriteriaQuizzesCompleted, CriteriaValue: 50,
			IsActive: true,
		},
		{
			Code: "perfect_10", Name: "Perfectionist",
			Description: "Score 100% on 10 quizzes",
			Icon:        "star",
			Category:    models.BadgeCategoryMastery, Tier: models.TierGold,
			Points:       100,
			CriteriaType: models.CriteriaPerfectQuizzes, CriteriaValue: 10,
			IsActive: true,
		},

		// Community
		{
			Code: "comments_10", Name: "Conversation Starter",
			Description: "Post 10 helpful comments",
			Icon:        "speech-bubble",
			Category:    models.BadgeCategorySocial, Tier: models.TierSilver,
			Points:       30,
			CriteriaType: models.CriteriaCommentsPosted, CriteriaValue: 10,
			IsActive: true,
		},
	}
}
