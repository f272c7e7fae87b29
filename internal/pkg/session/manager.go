// internal/pkg/session/manager.go
package session

import (
	"context"
	"time"
)

// Manager ties token jtis to live sessions. A token whose session has been
// deleted is treated as revoked even if its signature is still valid.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Create(ctx context.Context, shopkeeperID, shopName, jti string, ttl time.Duration) error {
	now := time.Now()
	return m.store.Save(ctx, &SessionData{
		JTI:          jti,
		ShopkeeperID: shopkeeperID,
		ShopName:     shopName,
		LoginAt:      now,
		ExpiresAt:    now.Add(ttl),
	}, ttl)
}

// Validate returns the session for a jti, or ErrSessionExpired if it has
// been revoked or timed out.
func (m *Manager) Validate(ctx context.Context, shopkeeperID, jti string) (*SessionData, error) {
	return m.store.Get(ctx, shopkeeperID, jti)
}

func (m *Manager) Revoke(ctx context.Context, shopkeeperID, jti string) error {
	return m.store.Delete(ctx, shopkeeperID, jti)
}

func (m *Manager) RevokeAll(ctx context.Context, shopkeeperID string) error {
	return m.store.DeleteAll(ctx, shopkeeperID)
}
