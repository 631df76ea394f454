package model

import (
	"math"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// Role 打工身分
type Role string

const (
	RoleAssistant  Role = "assistant"
	RoleInstructor Role = "instructor"
)

// DefaultRate 身分對應的預設時薪
func (r Role) DefaultRate() float64 {
	if r == RoleInstructor {
		return 350
	}
	return 200
}

// Valid 是否為已知身分
func (r Role) Valid() bool {
	return r == RoleAssistant || r == RoleInstructor
}

// SalaryRecord 單筆工作薪資記錄
type SalaryRecord struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	HourlyRate    float64 `json:"hourlyRate"`
	BreakMinutes  int     `json:"breakMinutes"`
	Role          Role    `json:"role"`
	ShiftCategory string  `json:"shiftCategory,omitempty"`
	WorkShiftID   string  `json:"workShiftId,omitempty"`
}

// WorkMinutes 扣除休息後的工作分鐘數；時間格式錯誤時回傳 0
func (r SalaryRecord) WorkMinutes() int {
	start, err := ClockMinutes(r.StartTime)
	if err != nil {
		return 0
	}
	end, err := ClockMinutes(r.EndTime)
	if err != nil {
		return 0
	}
	return end - start - r.BreakMinutes
}

// WorkHours 工作時數
func (r SalaryRecord) WorkHours() float64 {
	return float64(r.WorkMinutes()) / 60
}

// Pay 應得薪資，四捨五入到整數
func (r SalaryRecord) Pay() float64 {
	return math.Round(r.WorkHours() * r.HourlyRate)
}

// Validate 檢查薪資記錄
func (r SalaryRecord) Validate() error {
	v := apperrors.NewValidationError()
	if r.ID == "" {
		v.Add("記錄 ID 不可為空")
	}
	if !IsDate(r.Date) {
		v.Add("日期格式必須為 YYYY-MM-DD")
	}
	start, errStart := ClockMinutes(r.StartTime)
	end, errEnd := ClockMinutes(r.EndTime)
	if errStart != nil {
		v.Add("開始時間格式必須為 HH:MM")
	}
	if errEnd != nil {
		v.Add("結束時間格式必須為 HH:MM")
	}
	if r.BreakMinutes < 0 {
		v.Add("休息時間不可為負數")
	}
	if errStart == nil && errEnd == nil && end-start <= r.BreakMinutes {
		v.Add("結束時間必須晚於開始時間加上休息時間")
	}
	if r.HourlyRate <= 0 {
		v.Add("時薪必須大於 0")
	}
	if !r.Role.Valid() {
		v.Add("身分必須為 assistant 或 instructor")
	}
	return v.OrNil()
}
