package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
)

func TestRegistrationPolicy(t *testing.T) {
	p := NewRegistrationPolicy(true, map[string]string{
		"ADMIN-2024":   "admin",
		"MANAGER-2024": "manager",
		"BROKEN":       "superuser",
	}, zap.NewNop())

	assert.True(t, p.IsRegistrationEnabled())
	assert.True(t, p.IsValidInvitationCode("ADMIN-2024"))
	assert.False(t, p.IsValidInvitationCode("admin-2024"))
	assert.False(t, p.IsValidInvitationCode("BROKEN"))

	role, ok := p.RoleForInvitationCode("MANAGER-2024")
	require.True(t, ok)
	assert.Equal(t, entities.RoleManager, role)

	_, ok = p.RoleForInvitationCode("NOPE")
	assert.False(t, ok)

	assert.False(t, NewRegistrationPolicy(false, nil, zap.NewNop()).IsRegistrationEnabled())
}

func TestMemoryCacheRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCacheRepository()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	n, err := cache.Incr(ctx, "attempts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = cache.Incr(ctx, "attempts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ok, err := cache.Expire(ctx, "attempts", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "attempts")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", true, 0))
	v, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, cache.Del(ctx, "k"))
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err = cache.Expire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
