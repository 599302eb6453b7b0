package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/pkg/auth"
)

type contextKey string

const (
	// UserIDKey holds the authenticated user's id in the request context.
	UserIDKey contextKey = "user_id"
	// EmailKey holds the authenticated user's email in the request context.
	EmailKey contextKey = "email"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the request context.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware authenticates the request and then checks the user's
// current role against the store. The role is not trusted from the
// token, so demoting an admin takes effect on their next request.
func AdminMiddleware(repo domain.UserRepository, next http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(uint)
		if !ok {
			respondError(w, http.StatusUnauthorized, "User ID not found in context")
			return
		}

		user, err := repo.FindByID(userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if !user.IsAdmin() {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
