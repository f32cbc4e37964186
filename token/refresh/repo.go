package refresh

import (
	"context"
	"time"
)

// Record is the server-side registration of one refresh credential. One row
// is the current refresh token for a login lineage: rotation mutates the row
// in place rather than inserting a new one, so a single login never
// accumulates parallel refresh tokens, while distinct logins (distinct rows)
// coexist for multi-device use.
type Record struct {
	ID        string    // Unique record id
	UserID    string    // Owning user
	Token     string    // The signed token string, unique across all rows
	ExpiresAt time.Time // Wall-clock expiry, checked independently of the signature's
	CreatedAt time.Time
}

// Store manages server-side refresh token records. All operations are keyed
// by the token string or record id; no scanning.
//
// Insert returns errors.ErrConflict when the token string collides with an
// existing row; callers resolve that by issuing a different token. Rotate is
// an atomic conditional update: it replaces token and expiry only while the
// row still holds oldToken, and returns errors.ErrNotFound when it no longer
// does, so of two concurrent rotations exactly one succeeds.
type Store interface {
	Insert(ctx context.Context, userID, token string, expiresAt time.Time) (*Record, error)
	GetByToken(ctx context.Context, token string) (*Record, error)
	Rotate(ctx context.Context, recordID, oldToken, newToken string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}
