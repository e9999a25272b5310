package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the response cache middleware that
// fronts the public catalog endpoints.  When Enabled is false or no
// Redis client is configured, caching is disabled.  Methods lists the
// HTTP methods to cache.  KeyStrategy determines which parts of the
// request contribute to the cache key.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults cache GET responses for 30 seconds, which keeps listing
// pages snappy without letting availability flags go too stale.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
