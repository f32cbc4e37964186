// Package cookies derives the attribute sets for the auth cookies. Cookie
// state is never held in a long-lived service; handlers ask the policy for a
// value object and hand it to the response.
package cookies

import (
	"net/http"
	"time"
)

// Cookie names are fixed for client compatibility.
const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"
	CsrfTokenName    = "XSRF-TOKEN"

	// The refresh cookie is scoped to the auth path prefix only, reducing its
	// exposure surface versus the access cookie.
	authPath = "/auth"
	rootPath = "/"

	accessTokenMaxAge  = 15 * time.Minute
	refreshTokenMaxAge = 7 * 24 * time.Hour
	csrfTokenMaxAge    = 24 * time.Hour
)

// Policy is a pure function of environment + optional domain. Both auth
// cookies are HttpOnly and Secure always; SameSite is strict in production
// and lax otherwise, to tolerate local cross-port development.
type Policy struct {
	production bool
	domain     string
}

func NewPolicy(production bool, domain string) Policy {
	return Policy{production: production, domain: domain}
}

func (p Policy) AccessToken(value string) *http.Cookie {
	c := p.base(AccessTokenName, rootPath)
	c.Value = value
	c.MaxAge = int(accessTokenMaxAge.Seconds())
	return c
}

func (p Policy) RefreshToken(value string) *http.Cookie {
	c := p.base(RefreshTokenName, authPath)
	c.Value = value
	c.MaxAge = int(refreshTokenMaxAge.Seconds())
	return c
}

// ClearAccessToken mirrors the set-cookie attributes with max-age zero.
// Attribute mismatch on delete would make the browser ignore the directive.
func (p Policy) ClearAccessToken() *http.Cookie {
	c := p.base(AccessTokenName, rootPath)
	c.MaxAge = -1
	return c
}

func (p Policy) ClearRefreshToken() *http.Cookie {
	c := p.base(RefreshTokenName, authPath)
	c.MaxAge = -1
	return c
}

// CsrfToken is readable by script by design: the double-submit pattern needs
// the client to echo the value in a request header.
func (p Policy) CsrfToken(value string) *http.Cookie {
	c := p.base(CsrfTokenName, rootPath)
	c.Value = value
	c.MaxAge = int(csrfTokenMaxAge.Seconds())
	c.HttpOnly = false
	return c
}

func (p Policy) base(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     path,
		Domain:   p.domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: p.sameSite(),
	}
}

func (p Policy) sameSite() http.SameSite {
	if p.production {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}
