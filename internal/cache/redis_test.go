package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Cache{Db: client}, mr
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	err := c.Set(ctx, "audios:list", payload{Title: "story", Count: 3}, time.Hour)
	require.NoError(t, err)

	var got payload
	found, err := c.Get(ctx, "audios:list", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "story", got.Title)
	assert.Equal(t, 3, got.Count)
}

func TestCache_GetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	var got string
	found, err := c.Get(context.Background(), "nope", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Hour))
	require.NoError(t, c.Invalidate(ctx, "key"))

	var got string
	found, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_RevokeToken(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	revoked, err := c.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err = c.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// запись исчезает вместе со сроком жизни токена
	mr.FastForward(2 * time.Hour)
	revoked, err = c.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCache_RevokeToken_NonPositiveTTL(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.RevokeToken(ctx, "jti-2", -time.Second))

	revoked, err := c.IsTokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}
