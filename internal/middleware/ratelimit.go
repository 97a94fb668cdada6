package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/pkg/redis"
)

// RateLimit enforces a fixed-window limit of max requests per client IP for
// the given scope. Logged-in admins are exempt. A nil client disables it.
func RateLimit(client *redis.Client, scope string, max int64, window time.Duration, onLimit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		slot := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("myblog:rate_limit:%s:%s:%d", scope, ip, slot)
		count, err := client.Hit(c.Request.Context(), key, window+time.Second)
		if err != nil {
			c.Next()
			return
		}

		if count > max {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())+1))
			onLimit(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
