package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mseverin/portfolio-api/cookies"
	"github.com/mseverin/portfolio-api/server"
)

func TestLogin_SetsAuthCookies(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)

	body := `{"email":"` + testUserEmail + `","password":"` + testUserPassword + `"}`
	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, strings.NewReader(body)), f.csrfToken(t))

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	access := findCookie(t, rr, cookies.AccessTokenName)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, "/", access.Path)

	refresh := findCookie(t, rr, cookies.RefreshTokenName)
	require.True(t, refresh.HttpOnly)
	require.True(t, refresh.Secure)
	require.Equal(t, "/auth", refresh.Path)

	decoded := decodeBody(t, rr.Body)
	user := decoded["data"].(map[string]interface{})["user"].(map[string]interface{})
	require.Equal(t, testUserEmail, user["email"])

	// The refresh token is now registered server-side.
	require.Equal(t, 1, f.tokenRepo.CountByUser(testUserID))
}

func TestLogin_MissingFields(t *testing.T) {
	f := setupServerFixture(t)
	csrf := f.csrfToken(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "email=x&password=y"},
		{"missing password", `{"email":"a@b.com"}`},
		{"missing email", `{"password":"secret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, strings.NewReader(tt.body)), csrf)

			rr := f.do(req)
			require.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

// TestLogin_GenericFailureMessage checks unknown email and wrong password
// produce byte-identical responses.
func TestLogin_GenericFailureMessage(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	csrf := f.csrfToken(t)

	responses := make([]string, 0, 2)
	for _, body := range []string{
		`{"email":"nobody@example.com","password":"` + testUserPassword + `"}`,
		`{"email":"` + testUserEmail + `","password":"wrong-password"}`,
	} {
		req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, strings.NewReader(body)), csrf)
		rr := f.do(req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		responses = append(responses, rr.Body.String())
	}

	require.Equal(t, responses[0], responses[1])
	require.Contains(t, responses[0], "invalid email or password")
}

func TestRefresh_RotatesCookies(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	_, refresh := f.login(t)

	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))
	req.AddCookie(refresh)

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	newAccess := findCookie(t, rr, cookies.AccessTokenName)
	newRefresh := findCookie(t, rr, cookies.RefreshTokenName)
	require.NotEmpty(t, newAccess.Value)
	require.NotEqual(t, refresh.Value, newRefresh.Value, "refresh token should rotate")

	// Still one lineage: rotation replaced the record in place.
	require.Equal(t, 1, f.tokenRepo.CountByUser(testUserID))
}

// TestRefresh_ReplayRejected checks the full rotation contract over HTTP: the
// old refresh token dies the moment the rotated one is issued.
func TestRefresh_ReplayRejected(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	_, refresh := f.login(t)

	first := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))
	first.AddCookie(refresh)
	rr := f.do(first)
	require.Equal(t, http.StatusOK, rr.Code)

	replay := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))
	replay.AddCookie(refresh)
	rr = f.do(replay)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody(t, rr.Body)
	require.Equal(t, "invalid refresh token", body["message"])
}

func TestRefresh_MissingCookie(t *testing.T) {
	f := setupServerFixture(t)

	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))

	rr := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody(t, rr.Body)
	require.Equal(t, "invalid refresh token", body["message"])
}

func TestLogout_RevokesAndClearsCookies(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	access, refresh := f.login(t)

	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogout, nil), f.csrfToken(t))
	req.AddCookie(access)
	req.AddCookie(refresh)

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Both auth cookies are expired in the response.
	require.Negative(t, findCookie(t, rr, cookies.AccessTokenName).MaxAge)
	require.Negative(t, findCookie(t, rr, cookies.RefreshTokenName).MaxAge)

	// The lineage is gone server-side; the refresh token no longer works.
	require.Equal(t, 0, f.tokenRepo.CountByUser(testUserID))

	replay := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))
	replay.AddCookie(refresh)
	require.Equal(t, http.StatusUnauthorized, f.do(replay).Code)
}

func TestLogoutAll_RevokesEveryDevice(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)

	phoneAccess, phoneRefresh := f.login(t)
	_, laptopRefresh := f.login(t)
	require.Equal(t, 2, f.tokenRepo.CountByUser(testUserID))

	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthLogoutAll, nil), f.csrfToken(t))
	req.AddCookie(phoneAccess)

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 0, f.tokenRepo.CountByUser(testUserID))

	for _, cookie := range []*http.Cookie{phoneRefresh, laptopRefresh} {
		replay := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil), f.csrfToken(t))
		replay.AddCookie(cookie)
		require.Equal(t, http.StatusUnauthorized, f.do(replay).Code)
	}
}

func TestMe_ReturnsIdentityWithoutSecrets(t *testing.T) {
	f := setupServerFixture(t)
	f.createDefaultUser(t)
	access, _ := f.login(t)

	req := withCsrf(httptest.NewRequest(http.MethodPost, server.RouteAuthMe, nil), f.csrfToken(t))
	req.AddCookie(access)

	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "password")
}
