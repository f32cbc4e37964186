package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mseverin/portfolio-api/auth"
	"github.com/mseverin/portfolio-api/users"
	fakeuserrepo "github.com/mseverin/portfolio-api/users/repofake"
)

func TestVerify_Success(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	seedUser(t, repo, testUserID, testUserEmail, testUserPassword, true)

	verifier := auth.NewVerifier(repo)

	user, err := verifier.Verify(context.Background(), testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.Equal(t, testUserID, user.ID)
	require.Equal(t, testUserEmail, user.Email)
}

// TestVerify_GenericFailures checks every failure mode returns the one
// credential error, so responses cannot reveal whether an email is
// registered.
func TestVerify_GenericFailures(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	seedUser(t, repo, testUserID, testUserEmail, testUserPassword, true)
	seedUser(t, repo, "user-inactive", "inactive@example.com", testUserPassword, false)

	verifier := auth.NewVerifier(repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", testUserPassword},
		{"wrong password", testUserEmail, "wrong-password"},
		{"inactive user", "inactive@example.com", testUserPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, auth.ErrInvalidCredentials)
			require.EqualError(t, err, "invalid email or password")
		})
	}
}

func seedUser(t *testing.T, repo *fakeuserrepo.FakeUserRepo, id, email, password string, active bool) {
	t.Helper()

	passwordHash, err := users.HashPassword(password)
	require.NoError(t, err)

	err = repo.Upsert(context.Background(), &users.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "Test User",
		IsActive:     active,
	})
	require.NoError(t, err)
}
