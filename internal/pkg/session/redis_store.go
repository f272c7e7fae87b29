// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	xerrors "khata-service/internal/pkg/errors"
)

// RedisStore keeps sessions under session:<shopkeeper_id>:<jti> with the
// token's TTL, so revocation lists never need cleanup.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(shopkeeperID, jti string) string {
	return fmt.Sprintf("session:%s:%s", shopkeeperID, jti)
}

func (s *RedisStore) Save(ctx context.Context, data *SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKey(data.ShopkeeperID, data.JTI)
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, shopkeeperID, jti string) (*SessionData, error) {
	payload, err := s.client.Get(ctx, sessionKey(shopkeeperID, jti)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

func (s *RedisStore) Delete(ctx context.Context, shopkeeperID, jti string) error {
	return s.client.Del(ctx, sessionKey(shopkeeperID, jti)).Err()
}

func (s *RedisStore) DeleteAll(ctx context.Context, shopkeeperID string) error {
	pattern := fmt.Sprintf("session:%s:*", shopkeeperID)

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
