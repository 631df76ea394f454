package handler

import "github.com/BrianLien09/schedule-app/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Session    *SessionHandler
	Course     *CourseHandler
	WorkShift  *WorkShiftHandler
	Event      *EventHandler
	Salary     *SalaryHandler
	Allowance  *AllowanceHandler
	GameGuide  *GameGuideHandler
	CourseNote *CourseNoteHandler
	Calendar   *CalendarHandler
	Export     *ExportHandler
	Backup     *BackupHandler
	Stream     *StreamHandler
}

// NewHandler 建立 Handler 聚合
func NewHandler(svc *service.Service, writes WriteChecker) *Handler {
	return &Handler{
		Session:    NewSessionHandler(writes),
		Course:     NewCourseHandler(svc.Course),
		WorkShift:  NewWorkShiftHandler(svc.WorkShift),
		Event:      NewEventHandler(svc.Event),
		Salary:     NewSalaryHandler(svc.Salary),
		Allowance:  NewAllowanceHandler(svc.Allowance),
		GameGuide:  NewGameGuideHandler(svc.GameGuide),
		CourseNote: NewCourseNoteHandler(svc.CourseNote),
		Calendar:   NewCalendarHandler(svc.Calendar),
		Export:     NewExportHandler(svc.Export),
		Backup:     NewBackupHandler(svc.Backup),
		Stream:     NewStreamHandler(svc.Subscription),
	}
}
