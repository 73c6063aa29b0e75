package middlewares

import "time"

// StrictRateLimiterConfig for write endpoints
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 30,          // 30 requests
		Window:            time.Minute, // per minute
	}
}

// ModerateRateLimiterConfig for normal API endpoints
func ModerateRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 60,          // 60 requests
		Window:            time.Minute, // per minute
	}
}

// LenientRateLimiterConfig for read-heavy endpoints
func LenientRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 200,         // 200 requests
		Window:            time.Minute, // per minute
	}
}

// ProxyFetchRateLimiterConfig for the embed proxy, which triggers an outbound
// fetch per request
func ProxyFetchRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 40,          // 40 fetches
		Window:            time.Minute, // per minute
	}
}
