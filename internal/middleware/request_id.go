package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"learnhub/internal/contextutils"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ContextKey is the type for middleware context keys
type ContextKey string

const (
	// LoggerKey holds the request-scoped logger
	LoggerKey ContextKey = "logger"

	// RequestIDHeader carries the request ID on requests and responses
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns each request an ID, honoring one supplied by the caller,
// and injects a request-scoped logger carrying it.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = generateRequestID()
			}

			ctx := contextutils.WithRequestID(r.Context(), requestID)
			requestLogger := logger.With(zap.String("request_id", requestID))
			ctx = context.WithValue(ctx, LoggerKey, requestLogger)

			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger when the
// middleware did not run
func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

func generateRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// UUID generation only fails when the entropy source does
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return id.String()
}
