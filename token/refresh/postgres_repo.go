// Package refresh provides server-side storage of refresh token records.
// Persistence is what makes revocation possible: an access token is stateless,
// but a refresh token must match a stored row to be accepted.
package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mseverin/portfolio-api/internal/dbx"
	"github.com/mseverin/portfolio-api/internal/errors"
)

const uniqueViolationCode = "23505"

var _ Store = (*PostgresRepo)(nil)

// PostgresRepo implements Store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepo struct {
	db dbx.DBTX
}

func NewPostgresRepo(db dbx.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, userID, token string, expiresAt time.Time) (*Record, error) {
	record := &Record{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.UserID, record.Token, record.ExpiresAt).Scan(&record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

func (r *PostgresRepo) GetByToken(ctx context.Context, token string) (*Record, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	record := &Record{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID, &record.UserID, &record.Token, &record.ExpiresAt, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// Rotate replaces the token value and expiry of one record, conditional on
// the row still holding oldToken. The affected-row count decides the winner
// when two rotations race over the same token.
func (r *PostgresRepo) Rotate(ctx context.Context, recordID, oldToken, newToken string, expiresAt time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET token = $1, expires_at = $2
		WHERE id = $3 AND token = $4
	`
	result, err := r.db.ExecContext(ctx, query, newToken, expiresAt, recordID, oldToken)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteByToken(ctx context.Context, token string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
