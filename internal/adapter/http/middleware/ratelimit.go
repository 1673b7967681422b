package middleware

import (
	"strconv"
	"time"

	redisStore "marketplace-core/internal/adapter/storage/redis"
	"marketplace-core/internal/core/domain"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/metrics"
	"marketplace-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"wallet":        {Limit: 60, Window: time.Minute},
		"seller_orders": {Limit: 60, Window: time.Minute},
		"order_status":  {Limit: 30, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// It must run after Session so signed-in users are keyed by principal.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := group + ":" + extractIdentifier(c)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			metrics.RateLimitRejections.WithLabelValues(group).Inc()
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys signed-in callers by user and everyone else by IP.
func extractIdentifier(c *gin.Context) string {
	if userID, ok := domain.SessionFromContext(c.Request.Context()).Principal(); ok {
		return "user:" + userID.String()
	}
	return "ip:" + c.ClientIP()
}
