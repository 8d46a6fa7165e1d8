package config

import "time"

// GetRateLimit returns the per-item detail fetch delay.
func (s *ScraperConfig) GetRateLimit() time.Duration {
	if s.RateLimitMs <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(s.RateLimitMs) * time.Millisecond
}

// GetTimeout returns the per-request fetch timeout.
func (s *ScraperConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}
