package repositories

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Points       PointsRepository
	Streak       StreakRepository
	Badge        BadgeRepository
	Activity     ActivityRepository
	Announcement AnnouncementRepository
	Membership   MembershipRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collection{
		db:     db,
		logger: logger,
	}

	c.Points = NewPointsRepository(db, logger)
	c.Streak = NewStreakRepository(db, logger)
	c.Badge = NewBadgeRepository(db, logger)
	c.Activity = NewActivityRepository(db, logger)
	c.Announcement = NewAnnouncementRepository(db, logger)
	c.Membership = NewMembershipRepository(db, logger)

	logger.Info("Repository collection initialized")
	return c, nil
}

// HealthCheck probes each repository with a cheap read
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	health["points"] = c.testRepositoryHealth(ctx, "points", func() error {
		_, err := c.Points.GetBalance(ctx, 1)
		return err
	})
	health["streak"] = c.testRepositoryHealth(ctx, "streak", func() error {
		_, err := c.Streak.Get(ctx, 1)
		return err
	})
	health["badge"] = c.testRepositoryHealth(ctx, "badge", func() error {
		_, err := c.Badge.ListCatalog(ctx)
		return err
	})

	return health
}

func (c *Collection) testRepositoryHealth(ctx context.Context, name string, testFn func() error) map[string]interface{} {
	start := time.Now()
	err := testFn()
	duration := time.Since(start)

	result := map[string]interface{}{
		"duration": duration,
		"healthy":  err == nil,
	}
	if err != nil {
		result["error"] = err.Error()
		c.logger.Warn("Repository health check failed",
			zap.String("repository", name),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
	}
	return result
}

// GetDB returns the underlying database manager for advanced operations
func (c *Collection) GetDB() *database.Manager {
	return c.db
}

// Close releases the underlying database connections
func (c *Collection) Close() error {
	c.logger.Info("Closing repository collection")
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
