package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/pkg/response"
)

// WriteChecker 判斷目前身分是否在寫入允許清單內
type WriteChecker interface {
	CanWrite(ctx context.Context) bool
}

// SessionResponse 目前登入者
type SessionResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	CanWrite bool   `json:"canWrite"`
}

// SessionHandler 登入狀態查詢
type SessionHandler struct {
	writes WriteChecker
}

// NewSessionHandler writes 為 nil 時一律視為可寫
func NewSessionHandler(writes WriteChecker) *SessionHandler {
	return &SessionHandler{writes: writes}
}

// Me 回傳目前使用者與寫入權限，前端據此切換唯讀模式
// GET /api/v1/me
func (h *SessionHandler) Me(c *gin.Context) {
	u, ok := MustGetUser(c)
	if !ok {
		return
	}
	canWrite := true
	if h.writes != nil {
		canWrite = h.writes.CanWrite(c.Request.Context())
	}
	response.OK(c, SessionResponse{UID: u.UID, Email: u.Email, CanWrite: canWrite})
}
