package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// WorkShiftHandler 打工班表 HTTP 處理器
type WorkShiftHandler struct {
	shiftSvc service.WorkShiftService
}

// NewWorkShiftHandler 建立 WorkShiftHandler
func NewWorkShiftHandler(shiftSvc service.WorkShiftService) *WorkShiftHandler {
	return &WorkShiftHandler{shiftSvc: shiftSvc}
}

// List 班次列表
// GET /api/v1/work-shifts?month=2026-01
func (h *WorkShiftHandler) List(c *gin.Context) {
	var req dto.WorkShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	list, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 班次詳情
// GET /api/v1/work-shifts/:id
func (h *WorkShiftHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "班次")
	if !ok {
		return
	}
	shift, err := h.shiftSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// Create 新增班次
// POST /api/v1/work-shifts
func (h *WorkShiftHandler) Create(c *gin.Context) {
	var req dto.CreateWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	shift, err := h.shiftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.Created(c, shift)
}

// Update 更新班次
// PUT /api/v1/work-shifts/:id
func (h *WorkShiftHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "班次")
	if !ok {
		return
	}
	var req dto.UpdateWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// Delete 刪除班次
// DELETE /api/v1/work-shifts/:id
func (h *WorkShiftHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "班次")
	if !ok {
		return
	}
	if err := h.shiftSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

// Copy 複製班次到指定日期
// POST /api/v1/work-shifts/:id/copy
func (h *WorkShiftHandler) Copy(c *gin.Context) {
	id, ok := mustParamID(c, "班次")
	if !ok {
		return
	}
	var req dto.CopyWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	shift, err := h.shiftSvc.Copy(c.Request.Context(), id, &req)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.Created(c, shift)
}

// Templates 班次範本列表
// GET /api/v1/work-shifts/templates
func (h *WorkShiftHandler) Templates(c *gin.Context) {
	response.OK(c, h.shiftSvc.Templates())
}

// ApplyTemplate 套用範本
// POST /api/v1/work-shifts/apply-template
func (h *WorkShiftHandler) ApplyTemplate(c *gin.Context) {
	var req dto.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	result, err := h.shiftSvc.ApplyTemplate(c.Request.Context(), &req)
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, result)
}

// CopyLastWeek 把上週班表整週搬到本週
// POST /api/v1/work-shifts/copy-last-week
func (h *WorkShiftHandler) CopyLastWeek(c *gin.Context) {
	created, err := h.shiftSvc.CopyLastWeek(c.Request.Context())
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, created)
}

// CopyLastMonth 把上個月班表搬到本月
// POST /api/v1/work-shifts/copy-last-month
func (h *WorkShiftHandler) CopyLastMonth(c *gin.Context) {
	created, err := h.shiftSvc.CopyLastMonth(c.Request.Context())
	if err != nil {
		h.handleWorkShiftError(c, err)
		return
	}
	response.OK(c, created)
}

func (h *WorkShiftHandler) handleWorkShiftError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrWorkShiftNotFound):
		response.NotFound(c, 21001, "班次不存在")
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 21002, "班次範本不存在")
	case errors.Is(err, service.ErrShiftDateOccupied):
		response.Conflict(c, 21003, err.Error())
	case errors.Is(err, service.ErrNothingToCopy):
		response.BadRequest(c, 21004, "沒有班表可以複製")
	default:
		response.InternalError(c)
	}
}
