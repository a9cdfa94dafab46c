package config

import "time"

// CacheConfig drives the Redis response cache placed in front of the
// report endpoints.  Caching is off when Enabled is false or Redis is
// unavailable.
//
// KeyStrategy is one of:
//
//	user_route_query   – per user, route with params, query (default)
//	method_route_query – method, route with params, query
//	route_query        – route with params, query
//	route              – route with params only
//
// Report bodies depend on the caller, so only user_route_query is safe
// for /revenue.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      envSet("CACHE_METHODS", "GET"),
		TTL:          envDur("CACHE_TTL", 60*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "user_route_query"),
		Prefix:       envStr("CACHE_PREFIX", "fi:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
