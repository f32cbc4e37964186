package auth

import (
	"context"

	errs "github.com/mseverin/portfolio-api/internal/errors"
	"github.com/mseverin/portfolio-api/users"
)

// dummyHash is compared against whenever the email lookup comes up empty or
// inactive, so response timing does not distinguish "no such email" from
// "wrong password".
var dummyHash = func() string {
	hash, err := users.HashPassword("timing-equalizer-placeholder")
	if err != nil {
		panic("bcrypt dummy hash: " + err.Error())
	}
	return hash
}()

// Verifier checks an email/password pair against the stored password hash.
// It has no side effects and is safe to retry.
type Verifier struct {
	users users.UserRepo
}

func NewVerifier(userRepo users.UserRepo) *Verifier {
	return &Verifier{users: userRepo}
}

// Verify returns the matching identity, or ErrInvalidCredentials for every
// failure mode: unknown email, inactive user, wrong password.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*users.User, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil || !user.IsActive {
		users.CheckPasswordHash(password, dummyHash)
		return nil, errs.ErrInvalidCredentials
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}

	return user, nil
}
