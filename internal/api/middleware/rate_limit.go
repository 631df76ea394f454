package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/pkg/redis"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// RateLimit 以 Redis 固定視窗計數限制請求頻率
// 已登入時以 uid 計數，否則以來源 IP；limit <= 0 或 rdb 為 nil 時直接放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		who := c.GetString("uid")
		if who == "" {
			who = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", who, c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 異常時放行
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "請求過於頻繁，請稍後再試")
			c.Abort()
			return
		}

		c.Next()
	}
}
