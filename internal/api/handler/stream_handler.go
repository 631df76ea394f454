package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/repository"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// StreamHandler 以 Server-Sent Events 推送集合快照
type StreamHandler struct {
	subscriptionSvc service.SubscriptionService
}

// NewStreamHandler 建立 StreamHandler
func NewStreamHandler(subscriptionSvc service.SubscriptionService) *StreamHandler {
	return &StreamHandler{subscriptionSvc: subscriptionSvc}
}

// Stream 先送出目前快照，之後每次變更送一次，直到連線中斷
// GET /api/v1/stream/:collection
func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	// 只保留最新一份快照
	updates := make(chan []repository.Document, 1)
	push := func(docs []repository.Document) {
		select {
		case <-updates:
		default:
		}
		updates <- docs
	}

	unsubscribe, err := h.subscriptionSvc.Subscribe(ctx, c.Param("collection"), push)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCollection):
			response.NotFound(c, 29001, "未知的集合名稱")
		default:
			response.InternalError(c)
		}
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case docs := <-updates:
			if docs == nil {
				docs = []repository.Document{}
			}
			c.SSEvent("snapshot", docs)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
