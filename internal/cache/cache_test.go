package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheExpiresEntries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTTLCacheWithClock[string, int](func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire at its deadline")

	v, ok = c.Get("b")
	assert.True(t, ok, "zero ttl never expires")
	assert.Equal(t, 2, v)
}

func TestTTLCacheDeleteAndPurge(t *testing.T) {
	c := NewTTLCache[string, string]()
	c.Set("x", "1", time.Hour)
	c.Set("y", "2", time.Hour)

	c.Delete("x")
	_, ok := c.Get("x")
	assert.False(t, ok)

	c.Purge()
	_, ok = c.Get("y")
	assert.False(t, ok)
}

func TestSettingsCacheNormalizesKeys(t *testing.T) {
	c := NewSettingsCache()
	c.Set(" Debt_Limit ", "5000")

	v, ok := c.Get("debt_limit")
	assert.True(t, ok)
	assert.Equal(t, "5000", v)

	c.Invalidate("DEBT_LIMIT")
	_, ok = c.Get("debt_limit")
	assert.False(t, ok)
}
