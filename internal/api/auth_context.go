package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// userHeader carries the caller's identity. Authentication happens upstream;
// the gateway in front of this server sets it on every request it admits.
const userHeader = "X-User-ID"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userIDKey is the context key for the calling user ID.
const userIDKey ctxKey = "userID"

// GetUserID returns the calling user ID from context.
// Returns 401 error if the request carries no user.
func GetUserID(ctx context.Context) (string, error) {
	userID := viewerID(ctx)
	if userID == "" {
		return "", huma.Error401Unauthorized("missing " + userHeader + " header")
	}
	return userID, nil
}

// viewerID returns the calling user ID, or "" for anonymous requests.
func viewerID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// setUserID stores the user ID in context.
func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// userMiddleware copies the user header into the request context.
// Requests without it continue anonymously; handlers use GetUserID to
// require a user.
func userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := strings.TrimSpace(r.Header.Get(userHeader)); userID != "" {
			r = r.WithContext(setUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
