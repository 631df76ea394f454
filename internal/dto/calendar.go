package dto

import (
	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/model"
)

// ── 行事曆模組 DTO ──

// MonthViewRequest 月曆查詢，未帶時使用當月
type MonthViewRequest struct {
	Year  int `form:"year"  binding:"omitempty,min=1970,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// DayEntries 單日的行程
type DayEntries struct {
	Date       string            `json:"date"`
	Courses    []model.Course    `json:"courses"`
	WorkShifts []model.WorkShift `json:"workShifts"`
	Events     []model.Event     `json:"events"`
}

// MonthViewResponse 月曆：格線 + 每日行程
type MonthViewResponse struct {
	Grid calendar.MonthGrid `json:"grid"`
	Days []DayEntries       `json:"days"`
}

// ScheduleEntry 儀表板上的一筆行程
type ScheduleEntry struct {
	Kind      string `json:"kind"` // class | work
	ID        string `json:"id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DashboardResponse 首頁儀表板
type DashboardResponse struct {
	Today            string            `json:"today"`
	Now              string            `json:"now"`
	WeeklyClassCount int               `json:"weeklyClassCount"`
	MonthWorkDays    int               `json:"monthWorkDays"`
	TodayCourses     []model.Course    `json:"todayCourses"`
	CurrentEntry     *ScheduleEntry    `json:"currentEntry"`
	NextEntry        *ScheduleEntry    `json:"nextEntry"`
	MonthWorkShifts  []model.WorkShift `json:"monthWorkShifts"`
	UpcomingEvents   []model.Event     `json:"upcomingEvents"`
}
