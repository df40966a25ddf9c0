package infrastructures

import "time"

type RateLimitConfig struct {
	KeyPrefix string
	Requests  int
	Window    time.Duration
}

func NewRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyPrefix: Config.REDIS_PREFIX,
		Requests:  Config.RATE_LIMIT_REQUESTS,
		Window:    Config.RATE_LIMIT_WINDOW,
	}
}
