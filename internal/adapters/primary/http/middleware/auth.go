package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// StaticBearerAuth validates the Authorization header against a single
// pre-shared API token. The comparison is constant time so the token cannot
// be probed byte by byte.
func StaticBearerAuth(apiToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Authorization header format must be Bearer {token}")
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiToken)) != 1 {
				unauthorized(w, "Invalid API token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	writeAppError(w, apperrors.NewUnauthorizedError(message))
}

// writeAppError renders a typed error in the dashboard envelope. Middleware
// cannot reach the central error handler without an import cycle, so it
// writes the same shape directly.
func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}
