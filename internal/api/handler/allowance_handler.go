package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// AllowanceHandler 生活費記錄 HTTP 處理器
type AllowanceHandler struct {
	allowanceSvc service.AllowanceService
}

// NewAllowanceHandler 建立 AllowanceHandler
func NewAllowanceHandler(allowanceSvc service.AllowanceService) *AllowanceHandler {
	return &AllowanceHandler{allowanceSvc: allowanceSvc}
}

// List 生活費記錄，新的在前
// GET /api/v1/allowance-records
func (h *AllowanceHandler) List(c *gin.Context) {
	list, err := h.allowanceSvc.List(c.Request.Context())
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, list)
}

// Get GET /api/v1/allowance-records/:id
func (h *AllowanceHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "生活費記錄")
	if !ok {
		return
	}
	rec, err := h.allowanceSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, rec)
}

// Create POST /api/v1/allowance-records
func (h *AllowanceHandler) Create(c *gin.Context) {
	var req dto.CreateAllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	rec, err := h.allowanceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.Created(c, rec)
}

// Update PUT /api/v1/allowance-records/:id
func (h *AllowanceHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "生活費記錄")
	if !ok {
		return
	}
	var req dto.UpdateAllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	rec, err := h.allowanceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, rec)
}

// Delete DELETE /api/v1/allowance-records/:id
func (h *AllowanceHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "生活費記錄")
	if !ok {
		return
	}
	if err := h.allowanceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, nil)
}

// CopyText 產生可貼到記帳群組的文字
// GET /api/v1/allowance-records/:id/copy-text
func (h *AllowanceHandler) CopyText(c *gin.Context) {
	id, ok := mustParamID(c, "生活費記錄")
	if !ok {
		return
	}
	text, err := h.allowanceSvc.CopyText(c.Request.Context(), id)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, dto.CopyTextResponse{Text: text})
}

// SourceTypes GET /api/v1/allowance-source-types
func (h *AllowanceHandler) SourceTypes(c *gin.Context) {
	types, err := h.allowanceSvc.SourceTypes(c.Request.Context())
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, types)
}

// AddSourceType POST /api/v1/allowance-source-types
func (h *AllowanceHandler) AddSourceType(c *gin.Context) {
	var req dto.SourceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	types, err := h.allowanceSvc.AddSourceType(c.Request.Context(), req.Name)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.Created(c, types)
}

// DeleteSourceType DELETE /api/v1/allowance-source-types/:name
func (h *AllowanceHandler) DeleteSourceType(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		response.BadRequest(c, 10001, "來源類型不可為空")
		return
	}
	types, err := h.allowanceSvc.DeleteSourceType(c.Request.Context(), name)
	if err != nil {
		h.handleAllowanceError(c, err)
		return
	}
	response.OK(c, types)
}

func (h *AllowanceHandler) handleAllowanceError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAllowanceNotFound):
		response.NotFound(c, 24001, "生活費記錄不存在")
	case errors.Is(err, service.ErrUnknownSourceType):
		response.BadRequest(c, 24002, "來源類型不存在")
	case errors.Is(err, service.ErrSourceTypeExists):
		response.Conflict(c, 24003, "來源類型已存在")
	case errors.Is(err, service.ErrDefaultSourceType):
		response.BadRequest(c, 24004, "無法刪除預設來源類型")
	case errors.Is(err, service.ErrSourceTypeNotFound):
		response.NotFound(c, 24005, "找不到此來源類型")
	default:
		response.InternalError(c)
	}
}
