package auth

import (
	"context"
	"time"

	errs "github.com/mseverin/portfolio-api/internal/errors"
	"github.com/mseverin/portfolio-api/token"
	"github.com/mseverin/portfolio-api/token/refresh"
	"github.com/mseverin/portfolio-api/users"
	"github.com/pkg/errors"
)

const (
	// storeTimeout bounds every persistence call. A timeout is an
	// infrastructure failure, fatal to the request; a refresh is never
	// silently retried because it is not idempotent.
	storeTimeout = 5 * time.Second

	// maxMintAttempts bounds re-issuing after a token uniqueness conflict at
	// the store. Tokens carry a unique jti, so a conflict is exceptional.
	maxMintAttempts = 3
)

// CredentialVerifier checks an email/password pair and returns the identity.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*users.User, error)
}

// TokenIssuer mints token pairs and verifies refresh tokens.
type TokenIssuer interface {
	Issue(userID, email string) (token.Pair, error)
	VerifyRefresh(rawToken string) (*token.Claims, error)
	RefreshTokenExpiry() time.Duration
}

// Deps holds all dependencies for the Service.
type Deps struct {
	Verifier CredentialVerifier
	Issuer   TokenIssuer
	Store    refresh.Store
	Users    users.UserRepo
}

// LoginResult is what a successful login returns to the transport layer,
// which turns the pair into cookies.
type LoginResult struct {
	User   users.AuthUser
	Tokens token.Pair
}

// Service orchestrates login, refresh with rotation, logout, and logout-all
// over a login lineage: Anonymous -> Authenticated(active refresh record) ->
// Revoked.
type Service struct {
	deps    Deps
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new session Service with required dependencies.
func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Verifier == nil {
		return nil, errors.New("[NewService] Verifier is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("[NewService] Issuer is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewService] Store is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}

	s := &Service{
		deps:    deps,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Login verifies credentials, mints a token pair, and registers the refresh
// token as a new lineage. Every credential failure surfaces as
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.deps.Verifier.Verify(ctx, email, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.mintAndInsert(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user.AuthUser(), Tokens: pair}, nil
}

// Refresh rotates a lineage: the presented token must verify against the
// refresh secret AND match a live stored record. The record is then
// overwritten in place, which invalidates the presented string even though
// its signature stays valid until its original expiry. Every failure mode is
// normalized to ErrInvalidRefreshToken.
func (s *Service) Refresh(ctx context.Context, presentedToken string) (token.Pair, error) {
	claims, err := s.deps.Issuer.VerifyRefresh(presentedToken)
	if err != nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	record, err := s.deps.Store.GetByToken(storeCtx, presentedToken)
	if err != nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}
	// The stored expiry is checked against the wall clock on top of the
	// signature's embedded expiry; the two are set together but could drift
	// if record mutation failed after signing.
	if record.ExpiresAt.Before(s.nowTime()) {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	user, err := s.deps.Users.GetByID(storeCtx, claims.Subject)
	if err != nil || !user.IsActive {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		pair, err := s.deps.Issuer.Issue(user.ID, user.Email)
		if err != nil {
			return token.Pair{}, errors.Wrap(err, "[Service.Refresh] Issue")
		}

		expiresAt := s.nowTime().Add(s.deps.Issuer.RefreshTokenExpiry())
		err = s.deps.Store.Rotate(storeCtx, record.ID, presentedToken, pair.RefreshToken, expiresAt)
		switch {
		case err == nil:
			return pair, nil
		case errs.Is(err, errs.ErrConflict):
			continue // new token collided; mint another
		case errs.Is(err, errs.ErrNotFound):
			// Lost the rotation race: the row no longer holds the presented
			// token. Reject cleanly instead of overwriting the winner.
			return token.Pair{}, ErrInvalidRefreshToken
		default:
			return token.Pair{}, errors.Wrap(err, "[Service.Refresh] Rotate")
		}
	}
	return token.Pair{}, errors.New("[Service.Refresh] token conflict retries exhausted")
}

// Logout revokes the single lineage matching the presented token. Deleting an
// absent token is not an error; no signature check is needed since deletion
// is keyed by exact string match.
func (s *Service) Logout(ctx context.Context, presentedToken string) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.deps.Store.DeleteByToken(storeCtx, presentedToken); err != nil {
		return errors.Wrap(err, "[Service.Logout] DeleteByToken")
	}
	return nil
}

// LogoutAll collapses every lineage the user owns to Revoked, regardless of
// which device issued the currently-presented token.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.deps.Store.DeleteAllByUser(storeCtx, userID); err != nil {
		return errors.Wrap(err, "[Service.LogoutAll] DeleteAllByUser")
	}
	return nil
}

func (s *Service) mintAndInsert(ctx context.Context, user *users.User) (token.Pair, error) {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		pair, err := s.deps.Issuer.Issue(user.ID, user.Email)
		if err != nil {
			return token.Pair{}, errors.Wrap(err, "[Service.Login] Issue")
		}

		expiresAt := s.nowTime().Add(s.deps.Issuer.RefreshTokenExpiry())
		_, err = s.deps.Store.Insert(storeCtx, user.ID, pair.RefreshToken, expiresAt)
		switch {
		case err == nil:
			return pair, nil
		case errs.Is(err, errs.ErrConflict):
			continue
		default:
			return token.Pair{}, errors.Wrap(err, "[Service.Login] Insert")
		}
	}
	return token.Pair{}, errors.New("[Service.Login] token conflict retries exhausted")
}
