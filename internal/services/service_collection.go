package services

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/cache"
	"learnhub/internal/config"
	"learnhub/internal/database"
	"learnhub/internal/events"
	"learnhub/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection wires the gamification services with their dependencies
type ServiceCollection struct {
	// Core services
	PointsService       PointsService       `json:"-"`
	StreakService       StreakService       `json:"-"`
	BadgeService        BadgeService        `json:"-"`
	LeaderboardService  LeaderboardService  `json:"-"`
	ActivityService     ActivityService     `json:"-"`
	AnnouncementService AnnouncementService `json:"-"`

	// Repository collection
	Repositories *repositories.Collection `json:"-"`

	// Infrastructure components
	Cache     cache.Cache       `json:"-"`
	EventBus  events.EventBus   `json:"-"`
	Logger    *zap.Logger       `json:"-"`
	Config    *config.Config    `json:"-"`
	DBManager *database.Manager `json:"-"`
}

// NewServiceCollection creates the service collection, initializing
// infrastructure, repositories, and services in dependency order
func NewServiceCollection(
	dbManager *database.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
	}

	if err := sc.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	if err := sc.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	sc.initializeServices()

	logger.Info("Service collection initialized")
	return sc, nil
}

// initializeInfrastructure sets up the cache and event bus
func (sc *ServiceCollection) initializeInfrastructure() error {
	c, err := cache.New(&cache.Config{
		Provider:        sc.Config.Cache.Provider,
		TTL:             sc.Config.Cache.DefaultTTL,
		MaxKeys:         sc.Config.Cache.MaxKeys,
		CleanupInterval: sc.Config.Cache.CleanupInterval,
		RedisURL:        sc.Config.Cache.RedisURL,
		RedisDB:         sc.Config.Cache.RedisDB,
		RedisPassword:   sc.Config.Cache.RedisPassword,
		PoolSize:        sc.Config.Cache.PoolSize,
	}, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	sc.Cache = c

	sc.EventBus = events.NewEventBus(events.DefaultConfig(), sc.Logger)
	return nil
}

// initializeRepositories sets up the repository layer
func (sc *ServiceCollection) initializeRepositories() error {
	repos, err := repositories.NewCollection(sc.DBManager, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository collection: %w", err)
	}
	sc.Repositories = repos
	return nil
}

// initializeServices wires the service layer. Points comes first; streaks
// and badges grant bonuses through it.
func (sc *ServiceCollection) initializeServices() {
	sc.PointsService = NewPointsService(
		sc.Repositories.Points,
		sc.Repositories.Activity,
		sc.EventBus,
		sc.Config.Points,
		sc.Logger,
	)

	sc.ActivityService = NewActivityService(
		sc.Repositories.Activity,
		sc.Config.Gamification,
		sc.Logger,
	)

	sc.StreakService = NewStreakService(
		sc.Repositories.Streak,
		sc.Repositories.Activity,
		sc.PointsService,
		sc.EventBus,
		sc.Config.Points,
		sc.Config.Gamification.StreakMilestones,
		sc.Logger,
	)

	sc.BadgeService = NewBadgeService(
		sc.Repositories.Badge,
		sc.Repositories.Points,
		sc.Repositories.Streak,
		sc.Repositories.Activity,
		sc.PointsService,
		sc.EventBus,
		sc.Logger,
	)

	sc.LeaderboardService = NewLeaderboardService(
		sc.Repositories.Points,
		sc.Cache,
		sc.EventBus,
		sc.Config.Gamification,
		sc.Logger,
	)

	sc.AnnouncementService = NewAnnouncementService(
		sc.Repositories.Announcement,
		sc.Repositories.Membership,
		sc.EventBus,
		sc.Logger,
	)
}

// Start starts background processing and seeds the badge catalog
func (sc *ServiceCollection) Start(ctx context.Context) error {
	sc.Logger.Info("Starting service collection")

	if err := sc.EventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}

	if err := sc.Repositories.Badge.SeedCatalog(ctx, DefaultCatalog()); err != nil {
		return fmt.Errorf("failed to seed badge catalog: %w", err)
	}

	sc.Logger.Info("Service collection started")
	return nil
}

// Shutdown gracefully stops background processing and releases resources
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	var errs []error
	if sc.EventBus != nil {
		if err := sc.EventBus.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("event bus stop: %w", err))
		}
	}
	if sc.Cache != nil {
		if err := sc.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}
	if sc.DBManager != nil {
		if err := sc.DBManager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if len(errs) > 0 {
		sc.Logger.Error("Errors occurred during shutdown", zap.Int("error_count", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors", len(errs))
	}

	sc.Logger.Info("Service collection shutdown completed")
	return nil
}

// HealthCheck reports the health of the collection's dependencies
func (sc *ServiceCollection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sc.DBManager.Ping(checkCtx); err != nil {
		health["database"] = map[string]interface{}{"healthy": false, "error": err.Error()}
	} else {
		health["database"] = map[string]interface{}{"healthy": true}
	}

	if err := sc.Cache.Health(checkCtx); err != nil {
		health["cache"] = map[string]interface{}{"healthy": false, "error": err.Error()}
	} else {
		health["cache"] = map[string]interface{}{"healthy": true}
	}

	if err := sc.EventBus.Health(); err != nil {
		health["events"] = map[string]interface{}{"healthy": false, "error": err.Error()}
	} else {
		health["events"] = map[string]interface{}{"healthy": true}
	}

	return health
}
