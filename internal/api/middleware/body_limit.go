package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/pkg/response"
)

// BodyLimit 全域請求內容大小限制
// maxBytes: 允許的最大位元組數（如 10<<20 = 10MB）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "請求內容過大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
