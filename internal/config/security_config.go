package config

import (
	"os"
	"time"

	"github.com/mseverin/portfolio-api/internal/errors"
)

const (
	accessSecretVar  = "JWT_SECRET"
	refreshSecretVar = "JWT_REFRESH_SECRET"

	// minSecretLength is the minimum accepted length for signing secrets.
	minSecretLength = 32
)

type SecurityConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	ValidateSecrets() error
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetAccessTokenSecret() string {
	return os.Getenv(accessSecretVar)
}

func (Security) GetRefreshTokenSecret() string {
	return os.Getenv(refreshSecretVar)
}

func (Security) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (Security) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

// ValidateSecrets checks both signing secrets at startup. A missing or short
// secret is a fatal configuration error, not a per-request one.
func (s Security) ValidateSecrets() error {
	for _, secret := range []string{s.GetAccessTokenSecret(), s.GetRefreshTokenSecret()} {
		if secret == "" {
			return errors.ErrMissingSecret
		}
		if len(secret) < minSecretLength {
			return errors.ErrWeakSecret
		}
	}
	if s.GetAccessTokenSecret() == s.GetRefreshTokenSecret() {
		return errors.Wrapf(errors.ErrWeakSecret, "access and refresh secrets must differ")
	}
	return nil
}
