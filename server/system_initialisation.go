package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mseverin/portfolio-api/users"
)

const DefaultAdminName = "Administrator"

// InitialiseSystem seeds the first admin account when the user store is
// empty. Returns the generated password on first creation (empty string if
// an account already exists) so the operator can log in once and change it.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	adminEmail := s.config.GetAdminEmail()
	if adminEmail == "" {
		log.Warn().Msg("no users exist and ADMIN_EMAIL is unset, skipping admin bootstrap")
		return nil
	}

	generatedPassword, err := s.createAdmin(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap admin: %w", err)
	}

	if generatedPassword != "" {
		log.Info().
			Str("email", adminEmail).
			Str("password", generatedPassword).
			Msg("admin account created, change the password after first login")
	} else {
		log.Info().Str("email", adminEmail).Msg("admin account created")
	}
	return nil
}

// createAdmin creates the admin user, generating a random password when
// ADMIN_PASSWORD is unset.
func (s *Server) createAdmin(ctx context.Context, adminEmail string) (generatedPassword string, err error) {
	password := s.config.GetAdminPassword()
	if password == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[server createAdmin] failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("[server createAdmin] failed to hash password: %w", err)
	}

	name := s.config.GetAdminName()
	if name == "" {
		name = DefaultAdminName
	}

	now := time.Now()
	admin := &users.User{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Upsert(ctx, admin); err != nil {
		return "", fmt.Errorf("[server createAdmin] failed to create admin: %w", err)
	}
	return generatedPassword, nil
}
