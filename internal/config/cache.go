package config

import "time"

// CacheConfig controls the Redis cache in front of the pet type and shelter
// dropdowns.  Pages themselves are never cached.
type CacheConfig struct {
	Enabled bool          // CACHE_ENABLED
	TTL     time.Duration // CACHE_TTL, lifetime of a cached list
	Prefix  string        // CACHE_PREFIX, Redis key prefix
}

// LoadCacheConfig reads the CACHE_* variables.  A non-positive TTL falls
// back to one minute.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 5*time.Minute),
		Prefix:  envStr("CACHE_PREFIX", "shelter:lookup"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return cfg
}
