package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/mseverin/portfolio-api/cookies"
	"github.com/mseverin/portfolio-api/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated identity
const ContextKeyUser ContextKey = "auth_user"

// RequireAuth is the authorization checkpoint every protected route passes
// through. It extracts the access token from the cookie (preferred) or a
// bearer header, verifies signature and expiry, and checks the identity is
// still active. It never touches the refresh token store: access-token
// verification is stateless so ordinary requests incur no persistence lookup
// beyond the identity read.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken := extractAccessToken(r)
			if rawToken == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := s.tokens.VerifyAccess(rawToken)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			user, err := s.users.GetByID(r.Context(), claims.Subject)
			if err != nil || !user.IsActive {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user.AuthUser())
			next(w, r.WithContext(ctx))
		}
	}
}

// CurrentUser returns the identity the checkpoint attached to the request.
func CurrentUser(r *http.Request) (users.AuthUser, bool) {
	user, ok := r.Context().Value(ContextKeyUser).(users.AuthUser)
	return user, ok
}

func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(cookies.AccessTokenName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	// Fallback to Authorization header for non-cookie API clients
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
