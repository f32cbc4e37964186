package auth

import (
	errs "github.com/mseverin/portfolio-api/internal/errors"
)

// Errors surfaced by the session service. One generic error per operation;
// the specific failed check never leaves the subsystem.
var (
	ErrInvalidCredentials  = errs.ErrInvalidCredentials
	ErrInvalidRefreshToken = errs.ErrInvalidRefreshToken
)
