package dto

import "github.com/BrianLien09/schedule-app/internal/model"

// ── 薪資模組 DTO ──

// CreateSalaryRecordRequest 新增薪資記錄
type CreateSalaryRecordRequest struct {
	Date          string  `json:"date"          binding:"required,ymd"`
	StartTime     string  `json:"startTime"     binding:"required,hhmm"`
	EndTime       string  `json:"endTime"       binding:"required,hhmm"`
	HourlyRate    float64 `json:"hourlyRate"    binding:"omitempty,gt=0"`
	BreakMinutes  int     `json:"breakMinutes"  binding:"min=0,max=720"`
	Role          string  `json:"role"          binding:"required,oneof=assistant instructor"`
	ShiftCategory string  `json:"shiftCategory" binding:"omitempty,max=100"`
}

// UpdateSalaryRecordRequest 更新薪資記錄
type UpdateSalaryRecordRequest struct {
	Date          *string  `json:"date"          binding:"omitempty,ymd"`
	StartTime     *string  `json:"startTime"     binding:"omitempty,hhmm"`
	EndTime       *string  `json:"endTime"       binding:"omitempty,hhmm"`
	HourlyRate    *float64 `json:"hourlyRate"    binding:"omitempty,gt=0"`
	BreakMinutes  *int     `json:"breakMinutes"  binding:"omitempty,min=0,max=720"`
	Role          *string  `json:"role"          binding:"omitempty,oneof=assistant instructor"`
	ShiftCategory *string  `json:"shiftCategory" binding:"omitempty,max=100"`
}

// SalaryListRequest 薪資列表查詢
type SalaryListRequest struct {
	Month string `form:"month" binding:"omitempty,ym"`
}

// BatchDeleteRequest 批次刪除
type BatchDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

// BatchUpdateRateRequest 批次修改時薪
type BatchUpdateRateRequest struct {
	IDs        []string `json:"ids"        binding:"required,min=1,dive,required"`
	HourlyRate float64  `json:"hourlyRate" binding:"required,gt=0"`
}

// ImportFromShiftsRequest 由指定月份的班次產生薪資記錄
type ImportFromShiftsRequest struct {
	Month string `json:"month" binding:"required,ym"`
}

// ImportFromShiftsResponse 班次匯入結果
type ImportFromShiftsResponse struct {
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Records  []model.SalaryRecord `json:"records"`
}

// ImportWorkbookResponse 活頁簿匯入結果
type ImportWorkbookResponse struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// MonthlyStat 單月統計
type MonthlyStat struct {
	Month       string  `json:"month"`
	TotalPay    float64 `json:"totalPay"`
	TotalHours  float64 `json:"totalHours"`
	RecordCount int     `json:"recordCount"`
}

// SalarySummaryResponse 薪資總覽
type SalarySummaryResponse struct {
	TotalPay     float64       `json:"totalPay"`
	TotalHours   float64       `json:"totalHours"`
	RecordCount  int           `json:"recordCount"`
	MonthlyStats []MonthlyStat `json:"monthlyStats"`
}
