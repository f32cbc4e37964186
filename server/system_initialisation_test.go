package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mseverin/portfolio-api/server"
)

func TestInitialiseSystem_SeedsAdmin(t *testing.T) {
	f := setupServerFixture(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "bootstrap-password-1")
	t.Setenv("ADMIN_NAME", "Site Admin")

	require.NoError(t, f.srv.InitialiseSystem(context.Background()))

	admin, err := f.userRepo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.True(t, admin.IsActive)
	require.Equal(t, "Site Admin", admin.Name)
	require.NotEmpty(t, admin.PasswordHash)

	// The seeded credentials work for a real login.
	body := `{"email":"admin@example.com","password":"bootstrap-password-1"}`
	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, strings.NewReader(body)), f.csrfToken(t))
	require.Equal(t, http.StatusOK, f.do(req).Code)
}

func TestInitialiseSystem_SkipsWhenUsersExist(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "bootstrap-password-1")

	require.NoError(t, f.srv.InitialiseSystem(context.Background()))

	_, err := f.userRepo.GetByEmail(context.Background(), "admin@example.com")
	require.Error(t, err, "bootstrap must not run against a populated user store")
}

func TestInitialiseSystem_GeneratesPasswordWhenUnset(t *testing.T) {
	f := setupServerFixture(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "")

	require.NoError(t, f.srv.InitialiseSystem(context.Background()))

	admin, err := f.userRepo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, admin.PasswordHash)
}

func TestInitialiseSystem_NoAdminEmailConfigured(t *testing.T) {
	f := setupServerFixture(t)
	t.Setenv("ADMIN_EMAIL", "")

	require.NoError(t, f.srv.InitialiseSystem(context.Background()))

	count, err := f.userRepo.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}
