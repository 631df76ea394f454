package model

import (
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// Course 每週固定的課程時段
type Course struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Day       int    `json:"day"` // 1-7，週一=1 … 週日=7
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Validate 檢查課程欄位
func (c Course) Validate() error {
	v := apperrors.NewValidationError()
	if c.ID == "" {
		v.Add("課程 ID 不可為空")
	}
	if c.Name == "" {
		v.Add("課程名稱不可為空")
	}
	if c.Day < 1 || c.Day > 7 {
		v.Add("星期必須介於 1-7")
	}
	validateTimeRange(v, c.StartTime, c.EndTime)
	return v.OrNil()
}

// WorkShift 單日打工班次
type WorkShift struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Note      string `json:"note,omitempty"`
}

// Validate 檢查班次欄位
func (w WorkShift) Validate() error {
	v := apperrors.NewValidationError()
	if w.ID == "" {
		v.Add("班次 ID 不可為空")
	}
	if !IsDate(w.Date) {
		v.Add("日期格式必須為 YYYY-MM-DD")
	}
	validateTimeRange(v, w.StartTime, w.EndTime)
	return v.OrNil()
}

// EventType 事件類型
type EventType string

const (
	EventExam     EventType = "exam"
	EventDeadline EventType = "deadline"
	EventPersonal EventType = "personal"
	EventHoliday  EventType = "holiday"
)

// Valid 是否為已知的事件類型
func (t EventType) Valid() bool {
	switch t {
	case EventExam, EventDeadline, EventPersonal, EventHoliday:
		return true
	}
	return false
}

// Event 單日提醒或截止日
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description,omitempty"`
	Type        EventType `json:"type"`
}

// Validate 檢查事件欄位
func (e Event) Validate() error {
	v := apperrors.NewValidationError()
	if e.ID == "" {
		v.Add("事件 ID 不可為空")
	}
	if e.Title == "" {
		v.Add("事件標題不可為空")
	}
	if !IsDate(e.Date) {
		v.Add("日期格式必須為 YYYY-MM-DD")
	}
	if !e.Type.Valid() {
		v.Add("事件類型必須為 exam、deadline、personal 或 holiday")
	}
	return v.OrNil()
}

// validateTimeRange 兩端皆為 HH:MM 且開始早於結束
// 補零的 24 小時制字串可直接以字典序比較
func validateTimeRange(v *apperrors.ValidationError, start, end string) {
	startOK, endOK := IsClock(start), IsClock(end)
	if !startOK {
		v.Add("開始時間格式必須為 HH:MM")
	}
	if !endOK {
		v.Add("結束時間格式必須為 HH:MM")
	}
	if startOK && endOK && start >= end {
		v.Add("結束時間必須晚於開始時間")
	}
}
