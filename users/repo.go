package users

import "context"

// UserRepo is the user-lookup capability the auth subsystem consumes.
// Email lookups are case-sensitive at the store level.
type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Count(ctx context.Context) (int, error)
}
