package server

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"

	"github.com/mseverin/portfolio-api/auth"
	"github.com/mseverin/portfolio-api/cookies"
	"github.com/mseverin/portfolio-api/internal/config"
	"github.com/mseverin/portfolio-api/token"
	"github.com/mseverin/portfolio-api/token/refresh"
	"github.com/mseverin/portfolio-api/users"
)

type Server struct {
	env     string // Environment (e.g., "development", "production")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	auth    *auth.Service
	tokens  *token.Issuer
	users   users.UserRepo
	cookies cookies.Policy
	cors    *cors.Cors
}

func New(cfg config.Config, userRepo users.UserRepo, tokenStore refresh.Store) (*Server, error) {
	issuer, err := token.NewIssuer(
		cfg.GetAccessTokenSecret(),
		cfg.GetRefreshTokenSecret(),
		token.WithTokenExpiry(cfg.GetAccessTokenExpiry(), cfg.GetRefreshTokenExpiry()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token issuer: %w", err)
	}

	sessionService, err := auth.NewService(auth.Deps{
		Verifier: auth.NewVerifier(userRepo),
		Issuer:   issuer,
		Store:    tokenStore,
		Users:    userRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session service: %w", err)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		auth:    sessionService,
		tokens:  issuer,
		users:   userRepo,
		cookies: cookies.NewPolicy(cfg.IsProduction(), cfg.GetCookieDomain()),
		cors: cors.New(cors.Options{
			AllowedOrigins:   cfg.GetAllowedOrigins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Authorization", CsrfHeaderName},
			AllowCredentials: true,
		}),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Handler returns the full middleware-wrapped handler for the HTTP server.
func (s *Server) Handler() http.Handler {
	return s.cors.Handler(s.mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

func (s *Server) registerRoute(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}
