package config

import (
	"os"
	"time"
)

// CacheConfig controls the Redis response cache applied to public GET
// routes (menu browse, table lookup). Caching is skipped entirely when
// Enabled is false or no Redis client is available.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_ENABLED, CACHE_TTL and CACHE_PREFIX with
// sensible defaults for a menu that changes a few times a day.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: strOr("CACHE_ENABLED", "true") == "true",
		TTL:     durOr("CACHE_TTL", 30*time.Second),
		Prefix:  strOr("CACHE_PREFIX", "cache"),
	}
}

func durOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
