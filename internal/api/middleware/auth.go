package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/identity"
	"github.com/BrianLien09/schedule-app/pkg/jwt"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// IdentityAuth 身分驗證中介層
// 從 Authorization: Bearer <token> 解析身分提供者簽發的 token，
// 有 e-mail 才算已登入，使用者注入 request context 供儲存層權限檢查使用
func IdentityAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少驗證標頭")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "驗證標頭格式無效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "Token 無效"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token 已過期，請重新登入"
			}
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		u := identity.User{UID: claims.UID, Email: claims.Email}
		if !u.Present() {
			response.Unauthorized(c, 10002, "未登入")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), u))
		c.Set("uid", u.UID)

		c.Next()
	}
}
