package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/service"
)

// RateLimitMiddleware enforces a per-key request budget. A redis failure
// lets the request through; the limiter protects the model backend, it is
// not an availability dependency.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := rateLimiter.Allow(c.Request.Context(), keyFunc(c), limit, window)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "Too Many Requests",
				Message: "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}

// MemberBasedKey keys the limit on the authenticated member, falling back to
// the client IP for anonymous requests.
func MemberBasedKey(c *gin.Context) string {
	if id := MemberID(c); id != 0 {
		return "member:" + strconv.FormatInt(id, 10)
	}
	return IPBasedKey(c)
}

// IPBasedKey keys the limit on the client IP, honoring X-Forwarded-For.
func IPBasedKey(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}
	return c.ClientIP()
}
