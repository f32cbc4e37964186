package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	errs "github.com/mseverin/portfolio-api/internal/errors"
	"github.com/pkg/errors"
)

const (
	// DefaultAccessTokenExpiry is the access token lifetime.
	DefaultAccessTokenExpiry = 15 * time.Minute
	// DefaultRefreshTokenExpiry is the refresh token lifetime.
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Issuer mints and verifies the two token classes. Access and refresh tokens
// are signed with different secrets so a leaked access-token secret cannot be
// used to mint refresh tokens.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type IssuerOption func(*Issuer)

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func WithTokenExpiry(accessExpiry, refreshExpiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.accessExpiry = accessExpiry
		i.refreshExpiry = refreshExpiry
	}
}

// NewIssuer initializes an Issuer with the two signing secrets. Missing
// secrets are a startup-class misconfiguration, not a per-request failure.
func NewIssuer(accessSecret, refreshSecret string, options ...IssuerOption) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errs.ErrMissingSecret
	}

	i := &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  DefaultAccessTokenExpiry,
		refreshExpiry: DefaultRefreshTokenExpiry,
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(i)
	}

	return i, nil
}

// RefreshTokenExpiry exposes the refresh lifetime so the stored record expiry
// is set from the same value as the signature's embedded expiry.
func (i *Issuer) RefreshTokenExpiry() time.Duration {
	return i.refreshExpiry
}

func (i *Issuer) AccessTokenExpiry() time.Duration {
	return i.accessExpiry
}

// Issue mints an access/refresh pair for the given identity. Each call
// produces distinct token strings (the jti claim is unique per signing), so a
// uniqueness conflict at the store can be resolved by issuing again.
func (i *Issuer) Issue(userID, email string) (Pair, error) {
	accessToken, err := i.sign(userID, email, i.accessSecret, i.accessExpiry)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Issuer.Issue access token")
	}

	refreshToken, err := i.sign(userID, email, i.refreshSecret, i.refreshExpiry)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Issuer.Issue refresh token")
	}

	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess checks signature and expiry of an access token and returns its
// claims.
func (i *Issuer) VerifyAccess(rawToken string) (*Claims, error) {
	return i.verify(rawToken, i.accessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token and returns
// its claims.
func (i *Issuer) VerifyRefresh(rawToken string) (*Claims, error) {
	return i.verify(rawToken, i.refreshSecret)
}

func (i *Issuer) sign(userID, email string, secret []byte, expiry time.Duration) (string, error) {
	now := i.nowFunc()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) verify(rawToken string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.nowFunc))
	if err != nil || !parsed.Valid {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}
