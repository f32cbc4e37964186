package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/mseverin/portfolio-api/cookies"
)

// CsrfHeaderName must carry the same value as the XSRF-TOKEN cookie on every
// mutating request (double-submit cookie pattern; no server-side record).
const CsrfHeaderName = "x-xsrf-token"

const csrfTokenLength = 32

var mutatingMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// CsrfGuard protects state-mutating requests. Safe methods only seed the
// token cookie when it is missing; mutating methods require cookie and header
// to match.
func (s *Server) CsrfGuard() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, mutating := mutatingMethods[r.Method]; !mutating {
				s.ensureCsrfCookie(w, r)
				next(w, r)
				return
			}

			cookie, err := r.Cookie(cookies.CsrfTokenName)
			headerToken := r.Header.Get(CsrfHeaderName)
			if err != nil || cookie.Value == "" || headerToken == "" {
				writeError(w, http.StatusForbidden, "CSRF token missing")
				return
			}

			if !secureCompare(cookie.Value, headerToken) {
				writeError(w, http.StatusForbidden, "CSRF token mismatch")
				return
			}

			next(w, r)
		}
	}
}

func (s *Server) ensureCsrfCookie(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookies.CsrfTokenName); err == nil && cookie.Value != "" {
		return
	}
	http.SetCookie(w, s.cookies.CsrfToken(generateCsrfToken()))
}

func generateCsrfToken() string {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		panic("csrf token generation: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// secureCompare runs in constant time over equal-length inputs: it must not
// short-circuit on the first mismatching byte.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
