package server

import (
	"log"
	"net/http"
	"strings"
)

// routeAccess tags each route for the authorization checkpoint.
type routeAccess int

const (
	// Public routes bypass the checkpoint entirely.
	Public routeAccess = iota
	// Protected routes require a verified, active identity.
	Protected
)

type route struct {
	method  string
	path    string
	access  routeAccess
	handler http.HandlerFunc
}

// routeTable is the explicit per-route capability table, built once at
// startup and consulted by the checkpoint before dispatch.
func (s *Server) routeTable() []route {
	return []route{
		{http.MethodGet, RouteHealth, Public, s.HealthHandler()},

		// AUTH
		{http.MethodPost, RouteAuthLogin, Public, s.LoginHandler()},
		{http.MethodPost, RouteAuthRefresh, Public, s.RefreshHandler()}, // guarded by the refresh cookie itself
		{http.MethodPost, RouteAuthLogout, Protected, s.LogoutHandler()},
		{http.MethodPost, RouteAuthLogoutAll, Protected, s.LogoutAllHandler()},
		{http.MethodPost, RouteAuthMe, Protected, s.MeHandler()},
	}
}

func (s *Server) initRoutes() {
	for _, r := range s.routeTable() {
		handler := r.handler
		if r.access == Protected {
			handler = s.RequireAuth()(handler)
		}
		handler = ChainMiddleware(handler,
			s.RecoverMiddleware,
			s.LoggingMiddleware,
			s.CsrfGuard(),
		)
		s.registerRoute(r.method+" "+r.path, handler)
	}
}

func (s *Server) logRoutes() {
	if s.env == "production" {
		return // Skip logging outside development
	}
	for _, r := range s.routes {
		parts := strings.SplitN(r, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-7s] %s\n", method, path)
}
