package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "khata-service/internal/pkg/errors"
)

func newRedisManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewManager(NewRedisStore(client)), mr
}

func TestManagerCreateAndValidate(t *testing.T) {
	m, _ := newRedisManager(t)
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti1", time.Minute))

	data, err := m.Validate(ctx, "shop1", "jti1")
	require.NoError(t, err)
	assert.Equal(t, "shop1", data.ShopkeeperID)
	assert.Equal(t, "Demo Shop", data.ShopName)
}

func TestManagerRevoke(t *testing.T) {
	m, _ := newRedisManager(t)
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti1", time.Minute))
	require.NoError(t, m.Revoke(ctx, "shop1", "jti1"))

	_, err := m.Validate(ctx, "shop1", "jti1")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestManagerRevokeAll(t *testing.T) {
	m, _ := newRedisManager(t)
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti1", time.Minute))
	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti2", time.Minute))
	require.NoError(t, m.Create(ctx, "shop2", "Other Shop", "jti3", time.Minute))

	require.NoError(t, m.RevokeAll(ctx, "shop1"))

	_, err := m.Validate(ctx, "shop1", "jti1")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
	_, err = m.Validate(ctx, "shop1", "jti2")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)

	_, err = m.Validate(ctx, "shop2", "jti3")
	assert.NoError(t, err, "other shops' sessions must survive")
}

func TestManagerSessionExpiry(t *testing.T) {
	m, mr := newRedisManager(t)
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti1", time.Second))

	mr.FastForward(2 * time.Second)

	_, err := m.Validate(ctx, "shop1", "jti1")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestMemoryStoreBehavesLikeRedisStore(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "shop1", "Demo Shop", "jti1", time.Minute))

	data, err := m.Validate(ctx, "shop1", "jti1")
	require.NoError(t, err)
	assert.Equal(t, "jti1", data.JTI)

	require.NoError(t, m.RevokeAll(ctx, "shop1"))
	_, err = m.Validate(ctx, "shop1", "jti1")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}
