package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmdelacruz/artifact-market/internal/redisx"
)

func setupTestRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedisRoundTrip(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	lines := []Line{{CartID: "a1-x", Quantity: 2}}
	lines[0].ID = "a1"
	lines[0].Name = "Manunggul Jar"
	lines[0].Value = 1200

	require.NoError(t, repo.Save(ctx, "s1", lines))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1-x", got[0].CartID)
	assert.Equal(t, int64(1200), got[0].Value)
}

func TestRedisLoadMissingCartIsEmpty(t *testing.T) {
	repo, _ := setupTestRepo(t)

	got, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCorruptCartResetsToEmpty(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	key := fmt.Sprintf(redisx.KeyCart, "s1")
	require.NoError(t, mr.Set(key, `{"not":"an array"`))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// the invalid entry is gone, not left to fail again
	assert.False(t, mr.Exists(key))
}

func TestRedisClearDeletesKey(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", []Line{{CartID: "x", Quantity: 1}}))
	require.NoError(t, repo.Clear(ctx, "s1"))
	assert.False(t, mr.Exists(fmt.Sprintf(redisx.KeyCart, "s1")))
}

func TestRedisCartExpiresWithSession(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", []Line{{CartID: "x", Quantity: 1}}))
	mr.FastForward(redisx.TTLSession)

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
