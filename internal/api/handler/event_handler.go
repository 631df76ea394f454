package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// EventHandler 行事曆事件 HTTP 處理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 建立 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// List 事件列表
// GET /api/v1/events?upcoming=true
func (h *EventHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	list, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 事件詳情
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "事件")
	if !ok {
		return
	}
	event, err := h.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// Create 新增事件
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.Created(c, event)
}

// Update 更新事件
// PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "事件")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	event, err := h.eventSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// Delete 刪除事件
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "事件")
	if !ok {
		return
	}
	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 22001, "事件不存在")
	default:
		response.InternalError(c)
	}
}
