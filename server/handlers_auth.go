package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mseverin/portfolio-api/cookies"
	errs "github.com/mseverin/portfolio-api/internal/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageData struct {
	Message string `json:"message"`
}

// LoginHandler authenticates with email and password and sets both auth
// cookies. Credential failures all return the same generic message.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.rejectAuth(w, err, "invalid email or password")
			return
		}

		http.SetCookie(w, s.cookies.AccessToken(result.Tokens.AccessToken))
		http.SetCookie(w, s.cookies.RefreshToken(result.Tokens.RefreshToken))
		writeSuccess(w, http.StatusOK, map[string]interface{}{"user": result.User})
	}
}

// RefreshHandler rotates the refresh token presented via the refresh cookie
// and resets both auth cookies.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookies.RefreshTokenName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		pair, err := s.auth.Refresh(r.Context(), cookie.Value)
		if err != nil {
			s.rejectAuth(w, err, "invalid refresh token")
			return
		}

		http.SetCookie(w, s.cookies.AccessToken(pair.AccessToken))
		http.SetCookie(w, s.cookies.RefreshToken(pair.RefreshToken))
		writeSuccess(w, http.StatusOK, messageData{Message: "Token refreshed successfully"})
	}
}

// LogoutHandler deletes the presented refresh record and clears both cookies.
// A missing or already-deleted refresh cookie still logs out cleanly.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(cookies.RefreshTokenName); err == nil && cookie.Value != "" {
			if err := s.auth.Logout(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("logout: failed to delete refresh token")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
		}

		s.clearAuthCookies(w)
		writeSuccess(w, http.StatusOK, messageData{Message: "Logged out successfully"})
	}
}

// LogoutAllHandler revokes every refresh record of the authenticated user.
func (s *Server) LogoutAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := s.auth.LogoutAll(r.Context(), user.ID); err != nil {
			log.Err(err).Msg("logout-all: failed to delete refresh tokens")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		s.clearAuthCookies(w)
		writeSuccess(w, http.StatusOK, messageData{Message: "Logged out from all devices"})
	}
}

// MeHandler returns the identity the checkpoint attached to the request.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		writeSuccess(w, http.StatusOK, map[string]interface{}{"user": user})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, messageData{Message: "ok"})
	}
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.cookies.ClearAccessToken())
	http.SetCookie(w, s.cookies.ClearRefreshToken())
}

// rejectAuth maps session service failures to responses. Authentication
// failures keep their generic message; anything else is an infrastructure
// error that must not leak detail.
func (s *Server) rejectAuth(w http.ResponseWriter, err error, message string) {
	switch {
	case isAuthFailure(err):
		writeError(w, http.StatusUnauthorized, message)
	default:
		log.Err(err).Msg("auth operation failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isAuthFailure(err error) bool {
	return errs.Is(err, errs.ErrInvalidCredentials) || errs.Is(err, errs.ErrInvalidRefreshToken)
}
