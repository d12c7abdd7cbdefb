// Package session persists conversation history per session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atlant-labs/prodex/internal/db"
	"github.com/atlant-labs/prodex/internal/domain"
)

var sessionKeyPrefix = domain.KeyPrefix + "session:"

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisStore keeps session history in a key-value store with a sliding TTL.
type RedisStore struct {
	store store
	ttl   time.Duration
}

// NewRedis creates a Redis-backed session store. Each Save refreshes the TTL,
// so sessions expire after ttl of inactivity.
func NewRedis(s store, ttl time.Duration) *RedisStore {
	return &RedisStore{store: s, ttl: ttl}
}

// Load returns the stored turns for a session. Unknown sessions return an
// empty slice: sessions come into existence on first Save.
func (r *RedisStore) Load(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	data, err := r.store.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("session load %s: %w", sessionID, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("session load %s decode: %w", sessionID, err)
	}
	return turns, nil
}

// Save replaces the stored turns for a session and refreshes the TTL.
func (r *RedisStore) Save(ctx context.Context, sessionID string, turns []domain.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("session save %s encode: %w", sessionID, err)
	}
	if err := r.store.SetWithTTL(ctx, sessionKeyPrefix+sessionID, data, r.ttl); err != nil {
		return fmt.Errorf("session save %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("session delete %s: %w", sessionID, err)
	}
	return nil
}
