package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTL_SetGet(t *testing.T) {
	t.Parallel()

	c, err := New[string, int](10, time.Minute)
	require.NoError(t, err)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestTTL_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c, err := NewWithClock[string, int](10, 5*time.Minute, clock)
	require.NoError(t, err)

	c.Set("a", 1)

	now = now.Add(5 * time.Minute)
	_, ok := c.Get("a")
	require.True(t, ok, "entry at exact ttl boundary is still alive")

	now = now.Add(time.Second)
	_, ok = c.Get("a")
	require.False(t, ok, "entry past ttl must miss")
	require.Equal(t, 0, c.Len(), "expired read evicts")
}

func TestTTL_SetResetsExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c, err := NewWithClock[string, int](10, 5*time.Minute, clock)
	require.NoError(t, err)

	c.Set("a", 1)
	now = now.Add(4 * time.Minute)
	c.Set("a", 2)
	now = now.Add(4 * time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestTTL_Bounded(t *testing.T) {
	t.Parallel()

	c, err := New[int, int](2, time.Minute)
	require.NoError(t, err)

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)

	require.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	require.False(t, ok, "oldest entry evicted at capacity")
}

func TestTTL_Evict(t *testing.T) {
	t.Parallel()

	c, err := New[string, string](4, time.Minute)
	require.NoError(t, err)

	c.Set("a", "x")
	c.Evict("a")
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestTTL_InvalidTTL(t *testing.T) {
	t.Parallel()

	_, err := New[string, int](4, 0)
	require.Error(t, err)
}
