package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// HealthChecker runs periodic connectivity probes against the pool and
// records the last observed state for the health endpoint.
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger
	healthy atomic.Bool
	lastErr atomic.Value // error text of the last failed probe
}

// NewHealthChecker creates a health checker for the manager
func NewHealthChecker(manager *Manager, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		manager: manager,
		logger:  logger,
	}
	hc.healthy.Store(true)
	return hc
}

// Start runs the probe loop until the context is cancelled
func (h *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.probe(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// probe pings the database, retrying briefly before declaring it unhealthy
func (h *HealthChecker) probe(ctx context.Context) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	err := backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return h.manager.Ping(pingCtx)
	}, policy)

	if err != nil {
		if h.healthy.Swap(false) {
			h.logger.Error("Database became unhealthy", zap.Error(err))
		}
		h.lastErr.Store(err.Error())
		return
	}

	if !h.healthy.Swap(true) {
		h.logger.Info("Database connection recovered")
	}

	stats := h.manager.Stats()
	if stats.OpenConnections >= h.manager.config.MaxOpenConns {
		h.logger.Warn("Connection pool saturated",
			zap.Int("open_connections", stats.OpenConnections),
			zap.Int64("wait_count", stats.WaitCount),
			zap.Duration("wait_duration", stats.WaitDuration),
		)
	}
}

// Healthy reports the last observed database state
func (h *HealthChecker) Healthy() bool {
	return h.healthy.Load()
}

// LastError returns the text of the most recent failed probe, if any
func (h *HealthChecker) LastError() string {
	if v := h.lastErr.Load(); v != nil {
		return v.(string)
	}
	return ""
}
