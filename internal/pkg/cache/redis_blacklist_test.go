package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBlacklist(t *testing.T) (*RedisBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBlacklistFromClient(client, zerolog.Nop()), mr
}

func TestRedisBlacklistRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBlacklist(t)

	revoked, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Blacklist(ctx, "jti-1", time.Hour))
	assert.True(t, mr.Exists(blacklistKeyPrefix+"jti-1"))
	assert.Equal(t, time.Hour, mr.TTL(blacklistKeyPrefix+"jti-1"))

	revoked, err = b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisBlacklistEntryExpires(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBlacklist(t)

	require.NoError(t, b.Blacklist(ctx, "jti-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisBlacklistSkipsSpentTokens(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBlacklist(t)

	require.NoError(t, b.Blacklist(ctx, "jti-0", 0))
	require.NoError(t, b.Blacklist(ctx, "jti-neg", -time.Second))
	assert.Empty(t, mr.Keys())
}

func TestRedisBlacklistReportsServerErrors(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBlacklist(t)
	require.NoError(t, b.Ping(ctx))

	mr.SetError("LOADING server is loading")
	_, err := b.IsBlacklisted(ctx, "jti-1")
	assert.Error(t, err)
	assert.Error(t, b.Blacklist(ctx, "jti-1", time.Hour))
	mr.SetError("")
}
