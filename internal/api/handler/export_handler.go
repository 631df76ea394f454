package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// ExportHandler 匯出模組 HTTP 處理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 建立 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ICS 匯出行事曆檔
// GET /api/v1/export/ics/:kind   kind: courses | work-shifts | events | all
func (h *ExportHandler) ICS(c *gin.Context) {
	file, err := h.exportSvc.ICS(c.Request.Context(), c.Param("kind"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// CSV 匯出試算表文字檔
// GET /api/v1/export/csv/:kind?month=2026-01
func (h *ExportHandler) CSV(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	file, err := h.exportSvc.CSV(c.Request.Context(), c.Param("kind"), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Workbook 匯出 xlsx
// GET /api/v1/export/xlsx/:kind?month=2026-01
func (h *ExportHandler) Workbook(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	file, err := h.exportSvc.Workbook(c.Request.Context(), c.Param("kind"), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// SalaryPDF 薪資報表
// GET /api/v1/export/pdf/salary?month=2026-01
func (h *ExportHandler) SalaryPDF(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	file, err := h.exportSvc.SalaryPDF(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUnknownExportKind):
		response.NotFound(c, 27001, "不支援的匯出種類")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
