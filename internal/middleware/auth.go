package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskvault/taskvault-go/internal/crypto"
	"github.com/taskvault/taskvault-go/internal/model"
)

type contextKey string

const requestContextKey contextKey = "requestContext"

// UserGetter is the lookup the auth middleware needs to resolve a token
// subject into a live user record. Fetching the user on every request means
// the admin flag always reflects the database, not a stale token.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Auth returns middleware that validates the Bearer token from the
// Authorization header and attaches a RequestContext to the request. Any
// missing, malformed or expired token is rejected with 401 before policy
// logic runs.
func Auth(secret string, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			corrID := CorrIDFromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				slog.Warn("missing token in request", "corr_id", corrID)
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				slog.Warn("invalid or expired token", "corr_id", corrID, "error", err)
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				slog.Warn("token subject not found", "corr_id", corrID, "user_id", userID)
				writeJSONError(w, http.StatusUnauthorized, "user not found")
				return
			}

			rc := model.RequestContext{
				CorrID:  corrID,
				UserID:  user.ID,
				IsAdmin: user.IsAdmin,
			}
			ctx := context.WithValue(r.Context(), requestContextKey, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestContextFrom extracts the caller identity placed by Auth.
func RequestContextFrom(ctx context.Context) (model.RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(model.RequestContext)
	return rc, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
