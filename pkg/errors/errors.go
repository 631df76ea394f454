package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── 資料存取層共用錯誤 ──

var (
	// ErrPermissionDenied 寫入被文件儲存的權限規則拒絕（不在白名單內）
	ErrPermissionDenied = errors.New("無寫入權限")
	// ErrDocumentNotFound 指定 ID 的文件不存在
	ErrDocumentNotFound = errors.New("文件不存在")
)

// ValidationError 記錄欄位不符合約束
// 收集所有違規項目，而非遇到第一個就停止
type ValidationError struct {
	Errors []string
}

// NewValidationError 以一或多條訊息建立 ValidationError
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}

// Add 追加一條違規訊息
func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// OrNil 無違規時回傳 nil，方便 `return v.OrNil()`
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return "資料驗證失敗：" + strings.Join(e.Errors, "；")
}

// ParseError 輸入檔案（備份 JSON、試算表、ICS）格式錯誤
type ParseError struct {
	Source string
	Err    error
}

// NewParseError 包裝底層解析錯誤
func NewParseError(source string, err error) *ParseError {
	return &ParseError{Source: source, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "無法讀取" + e.Source
	}
	return "無法讀取" + e.Source + "：" + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsValidation 判斷 err 鏈中是否含有 ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsParse 判斷 err 鏈中是否含有 ParseError
func IsParse(err error) (*ParseError, bool) {
	var p *ParseError
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
