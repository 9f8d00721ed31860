package services

import (
	"learnhub/internal/cache"
	"learnhub/internal/config"

	"go.uber.org/zap"
)

// testEnv wires the gamification services over in-memory fakes
type testEnv struct {
	points        *fakePointsRepo
	streaks       *fakeStreakRepo
	badges        *fakeBadgeRepo
	activity      *fakeActivityRepo
	announcements *fakeAnnouncementRepo
	memberships   *fakeMembershipRepo
	bus           *captureBus

	pointsSvc       PointsService
	streakSvc       StreakService
	badgeSvc        BadgeService
	leaderboardSvc  LeaderboardService
	activitySvc     ActivityService
	announcementSvc AnnouncementService
}

func testGamificationConfig() config.GamificationConfig {
	return config.GamificationConfig{
		StreakMilestones:    []int{7, 30, 100},
		LeaderboardCacheTTL: 0, // no caching unless a test opts in
		LeaderboardLimit:    100,
		FeedPageSize:        20,
		FeedMaxPageSize:     100,
	}
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	pointsCfg := config.DefaultPointsConfig()
	gamCfg := testGamificationConfig()

	env := &testEnv{
		points:        newFakePointsRepo(),
		streaks:       newFakeStreakRepo(),
		badges:        newFakeBadgeRepo(DefaultCatalog()),
		activity:      newFakeActivityRepo(),
		announcements: newFakeAnnouncementRepo(),
		memberships:   newFakeMembershipRepo(),
		bus:           newCaptureBus(),
	}

	env.pointsSvc = NewPointsService(env.points, env.activity, env.bus, pointsCfg, logger)
	env.activitySvc = NewActivityService(env.activity, gamCfg, logger)
	env.streakSvc = NewStreakService(
		env.streaks, env.activity, env.pointsSvc, env.bus,
		pointsCfg, gamCfg.StreakMilestones, logger,
	)
	env.badgeSvc = NewBadgeService(
		env.badges, env.points, env.streaks, env.activity,
		env.pointsSvc, env.bus, logger,
	)
	env.leaderboardSvc = NewLeaderboardService(
		env.points, cache.NewMemoryCache(cache.DefaultConfig(), logger), env.bus, gamCfg, logger,
	)
	env.announcementSvc = NewAnnouncementService(env.announcements, env.memberships, env.bus, logger)

	return env
}
