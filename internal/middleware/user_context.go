package middleware

import (
	"net/http"
	"strconv"

	"learnhub/internal/contextutils"
)

// UserIDHeader carries the caller's user ID, injected by the platform
// gateway after authentication
const UserIDHeader = "X-User-ID"

// UserContext propagates the gateway-supplied user identity into the request
// context. Requests without the header pass through anonymously; endpoints
// that need an identity reject those themselves.
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get(UserIDHeader); raw != "" {
				if userID, err := strconv.ParseInt(raw, 10, 64); err == nil && userID > 0 {
					r = r.WithContext(contextutils.WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
