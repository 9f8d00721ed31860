package services

import (
	"context"
	"testing"

	"learnhub/internal/events"
	"learnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func awardedCodes(awards []*models.BadgeAward) map[string]bool {
	codes := make(map[string]bool)
	for _, a := range awards {
		codes[a.BadgeCode] = true
	}
	return codes
}

func TestEvaluateAwardsFirstSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionSessionComplete})
	require.NoError(t, err)

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)

	codes := awardedCodes(awards)
	assert.True(t, codes["first_session"])
	assert.False(t, codes["sessions_10"])

	// The award pays its reward points and lands in the feed
	balance, err := env.pointsSvc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10+10), balance.TotalEarned, "session points plus badge reward")

	items := env.activity.itemsOfType(1, models.ActivityBadgeEarned)
	require.Len(t, items, 1)
	assert.Equal(t, "first_session", items[0].Metadata["badge_code"])

	published := env.bus.eventsOfType(events.EventBadgeAwarded)
	require.Len(t, published, 1)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionSessionComplete})
	require.NoError(t, err)

	first, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, second, "held badges are never re-awarded")

	held, err := env.badgeSvc.GetUserBadges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, held, len(first))
}

func TestEvaluateLifetimePointsBadge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 5 subject completions at 100 points reach the 500 lifetime threshold
	for i := 0; i < 5; i++ {
		_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionSubjectComplete})
		require.NoError(t, err)
	}

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(awards)["points_500"])
}

func TestEvaluateSpendingDoesNotRevokeLifetimeBadge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionSubjectComplete})
		require.NoError(t, err)
	}
	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	require.True(t, awardedCodes(awards)["points_500"])

	// Spending drops the balance below the threshold; lifetime stays
	_, err = env.pointsSvc.Spend(ctx, SpendPointsRequest{UserID: 1, Amount: 400, Reason: "theme_pack"})
	require.NoError(t, err)

	held, err := env.badgeSvc.GetUserBadges(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(held)["points_500"])
}

func TestEvaluateStreakBadge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	date := "2026-08-01"
	for day := 1; day <= 7; day++ {
		result := recordDay(t, env, 1, date)
		date = result.State.LastActivityDate.AddDate(0, 0, 1).Format("2006-01-02")
	}

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(awards)["streak_7"])
	assert.False(t, awardedCodes(awards)["streak_30"])
}

func TestEvaluateStreakBadgeUsesHighWaterMark(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Build a 7 day streak, then break it
	date := "2026-08-01"
	for day := 1; day <= 7; day++ {
		result := recordDay(t, env, 1, date)
		date = result.State.LastActivityDate.AddDate(0, 0, 1).Format("2006-01-02")
	}
	recordDay(t, env, 1, "2026-08-20")

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(awards)["streak_7"], "longest streak counts, not current")
}

func TestEvaluateIgnoresInactiveBadges(t *testing.T) {
	catalog := DefaultCatalog()
	for i := range catalog {
		if catalog[i].Code == "first_session" {
			catalog[i].IsActive = false
		}
	}

	env := newTestEnv()
	env.badges = newFakeBadgeRepo(catalog)
	env.badgeSvc = NewBadgeService(
		env.badges, env.points, env.streaks, env.activity,
		env.pointsSvc, env.bus, zap.NewNop(),
	)

	ctx := context.Background()
	_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionSessionComplete})
	require.NoError(t, err)

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.False(t, awardedCodes(awards)["first_session"])
}

func TestEvaluatePerfectQuizBadge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := env.pointsSvc.Earn(ctx, EarnPointsRequest{UserID: 1, Action: ActionQuizPerfectScore})
		require.NoError(t, err)
	}

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(awards)["perfect_10"])
}

func TestEvaluateCommentsBadge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Comments are credited by the social subsystem through EarnBonus
	for i := 0; i < 10; i++ {
		_, err := env.pointsSvc.EarnBonus(ctx, 1, 2, ActionCommentPosted)
		require.NoError(t, err)
	}

	awards, err := env.badgeSvc.Evaluate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, awardedCodes(awards)["comments_10"])
}

func TestDefaultCatalogFamiliesEscalate(t *testing.T) {
	// Within a criteria family, higher thresholds award more points and
	// never a lower tier
	byType := make(map[string][]models.Badge)
	for _, b := range DefaultCatalog() {
		byType[b.CriteriaType] = append(byType[b.CriteriaType], b)
	}

	for criteriaType, family := range byType {
		for i := 1; i < len(family); i++ {
			prev, cur := family[i-1], family[i]
			assert.Greater(t, cur.CriteriaValue, prev.CriteriaValue, criteriaType)
			assert.Greater(t, cur.Points, prev.Points, criteriaType)
			assert.GreaterOrEqual(t, models.TierRank(cur.Tier), models.TierRank(prev.Tier), criteriaType)
		}
	}
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv()

	catalog, err := env.badgeSvc.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, len(DefaultCatalog()))
}
