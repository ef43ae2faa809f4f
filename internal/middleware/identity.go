package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// userIDHeader carries the authenticated user ID, set by the API gateway
// after token verification. Authentication itself happens upstream; this
// service only needs the resulting identity for participant checks.
const userIDHeader = "X-User-ID"

type contextKey string

const userIDContextKey contextKey = "rounds-service.user-id"

// Identity extracts the gateway-verified user ID into the request context,
// rejecting requests that arrive without one.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "missing or invalid user identity", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey, sharedtypes.UserID(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user ID, if present.
func UserIDFromContext(ctx context.Context) (sharedtypes.UserID, bool) {
	id, ok := ctx.Value(userIDContextKey).(sharedtypes.UserID)
	return id, ok
}
