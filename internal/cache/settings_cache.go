package cache

import (
	"strings"
	"time"
)

const defaultSettingTTL = 30 * time.Second

// SettingsCache stores hot-path settings lookups such as the debt limit.
type SettingsCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Invalidate(key string)
}

type settingsCache struct {
	values Cache[string, string]
	ttl    time.Duration
}

// NewSettingsCache returns an in-memory cache for settings values.
func NewSettingsCache() SettingsCache {
	return NewSettingsCacheWithTTL(defaultSettingTTL)
}

func NewSettingsCacheWithTTL(ttl time.Duration) SettingsCache {
	return &settingsCache{
		values: NewTTLCache[string, string](),
		ttl:    ttl,
	}
}

func (c *settingsCache) Get(key string) (string, bool) {
	return c.values.Get(cacheKey(key))
}

func (c *settingsCache) Set(key, value string) {
	c.values.Set(cacheKey(key), value, c.ttl)
}

func (c *settingsCache) Invalidate(key string) {
	c.values.Delete(cacheKey(key))
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
