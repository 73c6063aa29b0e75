package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
)

type RateLimiterConfig struct {
	RequestsPerWindow int           // Number of requests allowed
	Window            time.Duration // Fixed time window
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 150,         // 150 requests
		Window:            time.Minute, // per minute
	}
}

// Fixed-window counter. INCR and EXPIRE NX run inside one script so a counter
// can never be created without its expiry.
const rateLimitScript = `
local key = KEYS[1]
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])

local count = redis.call('INCR', key)
redis.call('EXPIRE', key, window, 'NX')

local ttl = redis.call('TTL', key)
local remaining = math.max(limit - count, 0)
local allowed = count <= limit

return {allowed and 1 or 0, remaining, ttl}
`

// RateLimiterMiddleware enforces a fixed TTL-window request budget per caller.
// Callers are identified by the X-User-ID header when present, otherwise by
// client IP. Redis being down never blocks traffic.
func RateLimiterMiddleware(redisClient *redis.Client, logger *logger.Logger, config RateLimiterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.GetHeader("X-User-ID")
		if identifier == "" {
			identifier = c.ClientIP()
		}

		allowed, remaining, reset, err := checkRateLimit(c.Request.Context(), redisClient, identifier, config)
		if err != nil {
			logger.Error("failed to check rate limit", zap.Error(err), zap.String("identifier", identifier))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", config.RequestsPerWindow))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

			logger.Warn("rate limit exceeded",
				zap.String("identifier", identifier),
				zap.String("path", c.Request.URL.Path),
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests. Try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func checkRateLimit(ctx context.Context, redisClient *redis.Client, identifier string, config RateLimiterConfig) (bool, int64, time.Time, error) {
	key := fmt.Sprintf("ratelimit:%s", identifier)
	windowSeconds := int(config.Window.Seconds())

	result, err := redisClient.Eval(ctx, rateLimitScript, []string{key}, windowSeconds, config.RequestsPerWindow).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	values, ok := result.([]any)
	if !ok || len(values) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	allowed := values[0].(int64) == 1
	remaining := values[1].(int64)
	ttl := values[2].(int64)

	reset := time.Now().Add(time.Duration(ttl) * time.Second)

	return allowed, remaining, reset, nil
}
