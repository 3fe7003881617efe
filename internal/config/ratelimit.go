package config

import "time"

// RateLimitConfig tunes the fixed-window request limiter. A window of 1m
// with Limit 120 means at most 120 requests per client per route per
// minute. Disabled (or no Redis) turns the middleware into a pass-through.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads limiter settings from the environment with
// defaults suitable for a single-user workspace.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Limit:   envInt("RATE_LIMIT_REQUESTS", 120),
		Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	// The limiter buckets time by whole windows; anything under a second
	// is clamped so the bucket math never divides by zero.
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}
