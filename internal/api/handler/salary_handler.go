package handler

import (
	"bytes"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// SalaryHandler 薪資記錄 HTTP 處理器
type SalaryHandler struct {
	salarySvc service.SalaryService
}

// NewSalaryHandler 建立 SalaryHandler
func NewSalaryHandler(salarySvc service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salarySvc: salarySvc}
}

// List 薪資記錄列表
// GET /api/v1/salary-records?month=2026-01
func (h *SalaryHandler) List(c *gin.Context) {
	var req dto.SalaryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	list, err := h.salarySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 薪資記錄詳情
// GET /api/v1/salary-records/:id
func (h *SalaryHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "薪資記錄")
	if !ok {
		return
	}
	rec, err := h.salarySvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, rec)
}

// Create 新增薪資記錄
// POST /api/v1/salary-records
func (h *SalaryHandler) Create(c *gin.Context) {
	var req dto.CreateSalaryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	rec, err := h.salarySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.Created(c, rec)
}

// Update 更新薪資記錄
// PUT /api/v1/salary-records/:id
func (h *SalaryHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "薪資記錄")
	if !ok {
		return
	}
	var req dto.UpdateSalaryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	rec, err := h.salarySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, rec)
}

// Delete 刪除薪資記錄
// DELETE /api/v1/salary-records/:id
func (h *SalaryHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "薪資記錄")
	if !ok {
		return
	}
	if err := h.salarySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, nil)
}

// BatchDelete 批次刪除
// POST /api/v1/salary-records/batch-delete
func (h *SalaryHandler) BatchDelete(c *gin.Context) {
	var req dto.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	n, err := h.salarySvc.BatchDelete(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": n})
}

// BatchUpdateRate 批次修改時薪
// POST /api/v1/salary-records/batch-rate
func (h *SalaryHandler) BatchUpdateRate(c *gin.Context) {
	var req dto.BatchUpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	n, err := h.salarySvc.BatchUpdateRate(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, gin.H{"updated": n})
}

// ImportFromShifts 由班表產生薪資記錄
// POST /api/v1/salary-records/import-shifts
func (h *SalaryHandler) ImportFromShifts(c *gin.Context) {
	var req dto.ImportFromShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	result, err := h.salarySvc.ImportFromShifts(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

// ImportWorkbook 匯入打工明細活頁簿
// POST /api/v1/salary-records/import-workbook
func (h *SalaryHandler) ImportWorkbook(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	result, err := h.salarySvc.ImportWorkbook(c.Request.Context(), bytes.NewReader(data))
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

// Summary 薪資總覽
// GET /api/v1/salary-records/summary
func (h *SalaryHandler) Summary(c *gin.Context) {
	summary, err := h.salarySvc.Summary(c.Request.Context())
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, summary)
}

func (h *SalaryHandler) handleSalaryError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSalaryRecordNotFound):
		response.NotFound(c, 23001, "薪資記錄不存在")
	case errors.Is(err, service.ErrNoShiftsToImport):
		response.BadRequest(c, 23002, "該月份沒有新的打工班表可匯入")
	default:
		response.InternalError(c)
	}
}
