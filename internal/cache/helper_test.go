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

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := client
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		client = prev
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	var missing cachedUser
	found, err := GetJSON(ctx, UserKey(1), &missing)
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedUser{ID: 1, Name: "Test User"}
	require.NoError(t, SetJSON(ctx, UserKey(1), want, UserTTL))

	var got cachedUser
	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestSetJSONAppliesTTL(t *testing.T) {
	mr := withMiniredis(t)

	require.NoError(t, SetJSON(context.Background(), UserKey(1), cachedUser{ID: 1}, UserTTL))
	assert.Equal(t, UserTTL, mr.TTL(UserKey(1)))
}

func TestAside(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			*dest = cachedUser{ID: 2, Name: "From DB"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "From DB", first.Name)
	assert.Equal(t, 1, fetches)

	// second read is served from the cache
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "From DB", second.Name)
	assert.Equal(t, 1, fetches)
}

func TestAsideRefetchesAfterInvalidate(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			*dest = cachedUser{ID: 3, Name: "Fresh"}
			return nil
		}
	}

	var v cachedUser
	require.NoError(t, Aside(ctx, UserKey(3), &v, UserTTL, load(&v)))
	Invalidate(ctx, UserKey(3))
	require.NoError(t, Aside(ctx, UserKey(3), &v, UserTTL, load(&v)))
	assert.Equal(t, 2, fetches)
}

func TestHelpersTolerateNilClient(t *testing.T) {
	prev := client
	client = nil
	t.Cleanup(func() { client = prev })

	ctx := context.Background()

	found, err := GetJSON(ctx, UserKey(1), &cachedUser{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, UserKey(1), cachedUser{ID: 1}, time.Minute))

	// Aside degrades to a plain fetch
	var v cachedUser
	err = Aside(ctx, UserKey(1), &v, time.Minute, func() error {
		v = cachedUser{ID: 1, Name: "Direct"}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "Direct", v.Name)
}
