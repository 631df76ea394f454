package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/identity"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// maxUploadSize 匯入檔案（ICS、xlsx、備份 JSON）的上限
const maxUploadSize = 10 << 20

// MustGetUser 從請求 context 中取出已登入的使用者。
// IdentityAuth 未注入使用者時寫入 401 並回傳 false，呼叫方應直接 return。
func MustGetUser(c *gin.Context) (identity.User, bool) {
	u, ok := identity.FromContext(c.Request.Context())
	if !ok {
		response.Unauthorized(c, 10002, "未登入")
		return identity.User{}, false
	}
	return u, true
}

// mustParamID 取得路徑參數 :id
func mustParamID(c *gin.Context, label string) (string, bool) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, label+"ID不可為空")
		return "", false
	}
	return id, true
}

// readUpload 讀取 multipart 欄位 file；沒有檔案時改讀整個 body
func readUpload(c *gin.Context) ([]byte, bool) {
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxUploadSize {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "檔案過大")
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, 10001, "無法讀取上傳檔案")
			return nil, false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			response.BadRequest(c, 10001, "無法讀取上傳檔案")
			return nil, false
		}
		return data, true
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize+1))
	if err != nil {
		response.BadRequest(c, 10001, "無法讀取請求內容")
		return nil, false
	}
	if len(data) > maxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "檔案過大")
		return nil, false
	}
	if len(data) == 0 {
		response.BadRequest(c, 10001, "缺少上傳檔案")
		return nil, false
	}
	return data, true
}

// handleCommonError 各模組共用的錯誤對應，已寫入回應時回傳 true
func handleCommonError(c *gin.Context, err error) bool {
	if v, ok := apperrors.IsValidation(err); ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "資料驗證失敗", v.Errors)
		return true
	}
	if pe, ok := apperrors.IsParse(err); ok {
		response.BadRequest(c, 10007, pe.Error())
		return true
	}
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		response.Forbidden(c, 10006, "無寫入權限")
	default:
		return false
	}
	return true
}
