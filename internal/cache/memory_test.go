package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, NewsListKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, NewsListKey, []byte(`[{"slug":"test"}]`), time.Minute))

	val, ok, err := c.Get(ctx, NewsListKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"slug":"test"}]`, string(val))

	require.NoError(t, c.Delete(ctx, NewsListKey, VisaListKey))
	_, ok, _ = c.Get(ctx, NewsListKey)
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, VisaListKey, []byte("[]"), time.Second))

	_, ok, _ := c.Get(ctx, VisaListKey)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = c.Get(ctx, VisaListKey)
	assert.False(t, ok)
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	val, ok, _ := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(val))
}
