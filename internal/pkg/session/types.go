// internal/pkg/session/types.go
package session

import (
	"context"
	"time"
)

type SessionData struct {
	JTI          string    `json:"jti"`
	ShopkeeperID string    `json:"shopkeeper_id"`
	ShopName     string    `json:"shop_name"`
	LoginAt      time.Time `json:"login_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Store is where live sessions are kept: Redis in the server, an in-process
// map when running on the memory store driver and in tests.
type Store interface {
	Save(ctx context.Context, data *SessionData, ttl time.Duration) error
	Get(ctx context.Context, shopkeeperID, jti string) (*SessionData, error)
	Delete(ctx context.Context, shopkeeperID, jti string) error
	DeleteAll(ctx context.Context, shopkeeperID string) error
}
