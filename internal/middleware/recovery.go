package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"learnhub/internal/contextutils"

	"go.uber.org/zap"
)

// Recovery converts handler panics into 500 responses. The stack goes to the
// logs; the client sees a generic error envelope.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					GetLogger(r.Context()).Error("Handler panicked",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"error": map[string]string{
							"type":    "INTERNAL_ERROR",
							"message": "an internal error occurred",
						},
						"request_id": contextutils.GetRequestID(r.Context()),
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
