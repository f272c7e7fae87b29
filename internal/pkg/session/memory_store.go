// internal/pkg/session/memory_store.go
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	xerrors "khata-service/internal/pkg/errors"
)

// MemoryStore is the in-process session store used with the memory ledger
// driver; sessions die with the process, like the original mock app.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	data      SessionData
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession)}
}

func (s *MemoryStore) Save(ctx context.Context, data *SessionData, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey(data.ShopkeeperID, data.JTI)] = memorySession{
		data:      *data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, shopkeeperID, jti string) (*SessionData, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionKey(shopkeeperID, jti)]
	s.mu.RUnlock()

	if !ok || time.Now().After(sess.expiresAt) {
		return nil, xerrors.ErrSessionExpired
	}

	data := sess.data
	return &data, nil
}

func (s *MemoryStore) Delete(ctx context.Context, shopkeeperID, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionKey(shopkeeperID, jti))
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context, shopkeeperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := "session:" + shopkeeperID + ":"
	for key := range s.sessions {
		if strings.HasPrefix(key, prefix) {
			delete(s.sessions, key)
		}
	}
	return nil
}
