package config

import "time"

// RateLimitConfig controls the fixed-window request limiter on public
// routes. Limit requests are allowed per Window per client key.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables with defaults tuned for
// a customer tapping through a menu, not an API integration.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: strOr("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   intOr("RATE_LIMIT_LIMIT", 60),
		Window:  durOr("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:  strOr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	return cfg
}
