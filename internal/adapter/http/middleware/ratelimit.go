package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/ratelimit"
)

var rateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "order_submissions_rate_limited_total",
	Help: "Order submissions rejected by the rate limiter",
})

// ClientIP extracts the caller's address from proxy headers: first entry of
// X-Forwarded-For, then X-Real-Ip, then the shared "unknown" bucket. Only
// correct behind a trusted reverse proxy that sets these headers itself;
// exposed directly, a caller could pick its own bucket.
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := c.GetHeader("X-Real-Ip"); ip != "" {
		return ip
	}
	return "unknown"
}

// RateLimit consumes one unit of per-IP quota before the handler runs, so
// even submissions that later fail validation count against the caller.
// Clients that resolve to "unknown" all share one bucket; degraded fairness
// beats an unlimited bypass.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)

		d, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			// Limiter store unreachable: let the request through rather
			// than refusing every order.
			logging.From(c).Warn("rate limiter unavailable, failing open", "error", err)
			c.Next()
			return
		}

		if !d.Allowed {
			rateLimited.Inc()
			resetIn := int(math.Ceil(d.ResetIn.Seconds()))
			if resetIn < 1 {
				resetIn = 1
			}
			logging.From(c).Info("rate limit exceeded", "ip", ip)
			c.Header("Retry-After", strconv.Itoa(resetIn))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many orders. Please try again later.",
				"resetIn": resetIn,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Next()
	}
}
