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

type cachedProfile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Progress string `json:"progress"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelper_SetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	stored := cachedProfile{ID: "user-1", FullName: "Jamie Nguyen", Progress: "3/12"}
	require.NoError(t, helper.Set(ctx, "id:user-1", stored, time.Minute))

	var loaded cachedProfile
	require.NoError(t, helper.Get(ctx, "id:user-1", &loaded))
	assert.Equal(t, stored, loaded)

	err := helper.Get(ctx, "id:missing", &loaded)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_KeyPrefix(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "id:user-1", "value", time.Minute))
	assert.True(t, mr.Exists("test:id:user-1"))
}

func TestCacheHelper_TTL(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "id:user-1", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := helper.GetString(ctx, "id:user-1")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "a", "1", time.Minute))
	require.NoError(t, helper.SetString(ctx, "b", "2", time.Minute))
	require.NoError(t, helper.Delete(ctx, "a", "b"))

	exists, err := helper.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "id:user-1", "1", time.Minute))
	require.NoError(t, helper.SetString(ctx, "id:user-2", "2", time.Minute))
	require.NoError(t, helper.SetString(ctx, "list:page-1", "3", time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "id:*"))

	for key, want := range map[string]bool{"id:user-1": false, "id:user-2": false, "list:page-1": true} {
		exists, err := helper.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, exists, "key %s", key)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	fetched := 0
	fetch := func() (interface{}, error) {
		fetched++
		return cachedProfile{ID: "user-1", FullName: "Jamie Nguyen"}, nil
	}

	var result cachedProfile
	require.NoError(t, helper.CacheOrExecute(ctx, "id:user-1", &result, time.Minute, fetch))
	assert.Equal(t, 1, fetched)
	assert.Equal(t, "Jamie Nguyen", result.FullName)

	// With the value already cached the fetch is skipped.
	require.NoError(t, helper.Set(ctx, "id:user-2", cachedProfile{ID: "user-2", FullName: "Sam Ortiz"}, time.Minute))
	var cached cachedProfile
	require.NoError(t, helper.CacheOrExecute(ctx, "id:user-2", &cached, time.Minute, fetch))
	assert.Equal(t, 1, fetched)
	assert.Equal(t, "Sam Ortiz", cached.FullName)
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	assert.NoError(t, helper.Set(ctx, "k", "v", time.Minute))
	assert.ErrorIs(t, helper.Get(ctx, "k", new(string)), ErrCacheNotAvailable)
	assert.NoError(t, helper.Delete(ctx, "k"))

	fetched := 0
	var result string
	err := helper.CacheOrExecute(ctx, "k", &result, time.Minute, func() (interface{}, error) {
		fetched++
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetched)
	assert.Equal(t, "fresh", result)
}

func TestCacheManager_HealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)
	assert.NoError(t, manager.HealthCheck(context.Background()))

	empty := NewCacheManager(nil)
	assert.ErrorIs(t, empty.HealthCheck(context.Background()), ErrCacheNotAvailable)
}
