package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mseverin/portfolio-api/cookies"
	"github.com/mseverin/portfolio-api/internal/config"
	"github.com/mseverin/portfolio-api/server"
	fakerefreshrepo "github.com/mseverin/portfolio-api/token/refresh/repofake"
	"github.com/mseverin/portfolio-api/users"
	fakeuserrepo "github.com/mseverin/portfolio-api/users/repofake"
)

const (
	testAccessSecret  = "access-secret-0123456789-0123456789"
	testRefreshSecret = "refresh-secret-0123456789-012345678"
	testUserID        = "user-1"
	testUserEmail     = "john.doe@example.com"
	testUserPassword  = "password123"
)

// serverFixture holds the server under test plus its fake stores.
type serverFixture struct {
	srv       *server.Server
	userRepo  *fakeuserrepo.FakeUserRepo
	tokenRepo *fakerefreshrepo.FakeRefreshTokenRepo
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	t.Setenv("JWT_SECRET", testAccessSecret)
	t.Setenv("JWT_REFRESH_SECRET", testRefreshSecret)
	t.Setenv("ENV", "development")

	ur := fakeuserrepo.NewFakeUserRepo()
	tr := fakerefreshrepo.NewFakeRefreshTokenRepo()

	srv, err := server.New(config.New(), ur, tr)
	require.NoError(t, err)

	return &serverFixture{srv: srv, userRepo: ur, tokenRepo: tr}
}

func (f *serverFixture) createDefaultUser(t *testing.T) {
	t.Helper()

	passwordHash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)

	err = f.userRepo.Upsert(context.Background(), &users.User{
		ID:           testUserID,
		Email:        testUserEmail,
		PasswordHash: passwordHash,
		Name:         "John Doe",
		IsActive:     true,
	})
	require.NoError(t, err)
}

func (f *serverFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.srv.ServeHTTP(rr, req)
	return rr
}

// csrfToken fetches a fresh CSRF token the way a browser would: a safe
// request seeds the cookie.
func (f *serverFixture) csrfToken(t *testing.T) string {
	t.Helper()

	rr := f.do(httptest.NewRequest(http.MethodGet, server.RouteHealth, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	cookie := findCookie(t, rr, cookies.CsrfTokenName)
	return cookie.Value
}

// withCsrf attaches the double-submit pair to a mutating request.
func withCsrf(req *http.Request, csrf string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookies.CsrfTokenName, Value: csrf})
	req.Header.Set(server.CsrfHeaderName, csrf)
	return req
}

// login performs a full login request and returns the auth cookies.
func (f *serverFixture) login(t *testing.T) (access, refresh *http.Cookie) {
	t.Helper()

	body := `{"email":"` + testUserEmail + `","password":"` + testUserPassword + `"}`
	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, strings.NewReader(body)), f.csrfToken(t))

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	return findCookie(t, rr, cookies.AccessTokenName), findCookie(t, rr, cookies.RefreshTokenName)
}

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set in response", name)
	return nil
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()

	decoded := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestHealth(t *testing.T) {
	f := setupServerFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, server.RouteHealth, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr.Body)
	require.Equal(t, "success", body["status"])
}

func TestServer_UnknownRoute(t *testing.T) {
	f := setupServerFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
