package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamasat/storefront/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "خاتم ذهبي كلاسيكي", Price: 250, Category: domain.CategoryRings, Stock: 15, IsNew: true},
		{ID: 2, Name: "سلسلة فضية", Price: 185, Category: domain.CategoryNecklaces, Stock: 16},
	}
}

func TestGet_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "all")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_Hit(t *testing.T) {
	cache, mr := setupTestRedis(t)

	products := sampleProducts()
	data, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey("category:rings"), string(data)))

	got, err := cache.Get(context.Background(), "category:rings")
	require.NoError(t, err)
	assert.Equal(t, products, got)
}

func TestSet_ThenGetRoundTrips(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "featured", sampleProducts()))

	got, err := cache.Get(ctx, "featured")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestInvalidate_DropsAllListings(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "all", sampleProducts()))
	require.NoError(t, cache.Set(ctx, "category:rings", sampleProducts()))

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx, "all")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, "category:rings")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptPayload(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cacheKey("all"), "not-json"))

	_, err := cache.Get(context.Background(), "all")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
