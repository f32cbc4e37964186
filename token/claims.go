package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded in both token classes. It is never persisted
// as its own entity; it is reconstructed by verifying the signed string.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Pair bundles the short-lived access token and the long-lived refresh token
// minted together for one identity.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
