package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// BackupHandler 備份與還原
type BackupHandler struct {
	backupSvc service.BackupService
}

// NewBackupHandler 建立 BackupHandler
func NewBackupHandler(backupSvc service.BackupService) *BackupHandler {
	return &BackupHandler{backupSvc: backupSvc}
}

// Export 下載備份檔
// GET /api/v1/backup?theme=dark
func (h *BackupHandler) Export(c *gin.Context) {
	file, err := h.backupSvc.Export(c.Request.Context(), c.Query("theme"))
	if err != nil {
		h.handleBackupError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Validate 只檢查備份檔，不寫入
// POST /api/v1/backup/validate
func (h *BackupHandler) Validate(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	result, err := h.backupSvc.Validate(c.Request.Context(), data)
	if err != nil {
		h.handleBackupError(c, err)
		return
	}
	response.OK(c, result)
}

// Import 以備份檔取代目前的課程、班表與事件
// POST /api/v1/backup/import
func (h *BackupHandler) Import(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	result, err := h.backupSvc.Import(c.Request.Context(), data)
	if err != nil {
		h.handleBackupError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *BackupHandler) handleBackupError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	response.InternalError(c)
}
