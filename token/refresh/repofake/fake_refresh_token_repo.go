package fakerefreshrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mseverin/portfolio-api/internal/errors"
	"github.com/mseverin/portfolio-api/token/refresh"
)

var _ refresh.Store = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo is an in-memory Store with the same conflict and
// conditional-rotation semantics as the Postgres adapter.
type FakeRefreshTokenRepo struct {
	records map[string]*refresh.Record // record id -> record
	tokens  map[string]string          // token -> record id
	lock    sync.Mutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		records: make(map[string]*refresh.Record),
		tokens:  make(map[string]string),
	}
}

func (rr *FakeRefreshTokenRepo) Insert(_ context.Context, userID, token string, expiresAt time.Time) (*refresh.Record, error) {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if _, exists := rr.tokens[token]; exists {
		return nil, errors.ErrConflict
	}

	record := &refresh.Record{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	rr.records[record.ID] = record
	rr.tokens[token] = record.ID

	copied := *record
	return &copied, nil
}

func (rr *FakeRefreshTokenRepo) GetByToken(_ context.Context, token string) (*refresh.Record, error) {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	id, ok := rr.tokens[token]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *rr.records[id]
	return &copied, nil
}

func (rr *FakeRefreshTokenRepo) Rotate(_ context.Context, recordID, oldToken, newToken string, expiresAt time.Time) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	record, ok := rr.records[recordID]
	if !ok || record.Token != oldToken {
		return errors.ErrNotFound
	}
	if otherID, exists := rr.tokens[newToken]; exists && otherID != recordID {
		return errors.ErrConflict
	}

	delete(rr.tokens, oldToken)
	record.Token = newToken
	record.ExpiresAt = expiresAt
	rr.tokens[newToken] = recordID
	return nil
}

func (rr *FakeRefreshTokenRepo) DeleteByToken(_ context.Context, token string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	id, ok := rr.tokens[token]
	if !ok {
		return nil // deleting an absent token is not an error
	}
	delete(rr.tokens, token)
	delete(rr.records, id)
	return nil
}

func (rr *FakeRefreshTokenRepo) DeleteAllByUser(_ context.Context, userID string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	for id, record := range rr.records {
		if record.UserID == userID {
			delete(rr.tokens, record.Token)
			delete(rr.records, id)
		}
	}
	return nil
}

// CountByUser reports how many records a user owns, for revocation tests.
func (rr *FakeRefreshTokenRepo) CountByUser(userID string) int {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	count := 0
	for _, record := range rr.records {
		if record.UserID == userID {
			count++
		}
	}
	return count
}
