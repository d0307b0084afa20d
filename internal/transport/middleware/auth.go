package middleware

import (
	"net/http"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/pkg/logger"
)

// UserContext adds the authenticated user id to the request logger. Mount after authentication.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := internal.UserIDFromContext(r.Context())
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
