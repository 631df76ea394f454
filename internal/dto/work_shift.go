package dto

// ── 打工班表模組 DTO ──

// CreateWorkShiftRequest 新增班次
type CreateWorkShiftRequest struct {
	Date      string `json:"date"      binding:"required,ymd"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime"   binding:"required,hhmm"`
	Note      string `json:"note"      binding:"omitempty,max=200"`
}

// UpdateWorkShiftRequest 更新班次
type UpdateWorkShiftRequest struct {
	Date      *string `json:"date"      binding:"omitempty,ymd"`
	StartTime *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime   *string `json:"endTime"   binding:"omitempty,hhmm"`
	Note      *string `json:"note"      binding:"omitempty,max=200"`
}

// WorkShiftListRequest 班次列表查詢
type WorkShiftListRequest struct {
	Month string `form:"month" binding:"omitempty,ym"`
}

// CopyWorkShiftRequest 複製班次到另一天
type CopyWorkShiftRequest struct {
	TargetDate string `json:"targetDate" binding:"required,ymd"`
}

// ApplyTemplateRequest 將班次範本套用到多個日期
type ApplyTemplateRequest struct {
	Template string   `json:"template" binding:"required"`
	Dates    []string `json:"dates"    binding:"required,min=1,max=62,dive,ymd"`
}

// ApplyTemplateResponse 套用結果
type ApplyTemplateResponse struct {
	Created      int      `json:"created"`
	SkippedDates []string `json:"skippedDates"`
}

// ShiftTemplateResponse 班次範本
type ShiftTemplateResponse struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
