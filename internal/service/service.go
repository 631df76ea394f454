package service

import (
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/config"
	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/repository"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course       CourseService
	WorkShift    WorkShiftService
	Event        EventService
	Salary       SalaryService
	Allowance    AllowanceService
	GameGuide    GameGuideService
	CourseNote   CourseNoteService
	Calendar     CalendarService
	Export       ExportService
	Backup       BackupService
	Subscription SubscriptionService
}

// NewService 建立 Service 聚合；時區與匯出設定取自 cfg.Export
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := cfg.Export.Location()
	if err != nil {
		return nil, err
	}

	expander := calendar.NewExpander(loc, cfg.Export.HorizonWeeks, logger)
	writer := calendar.NewWriter(expander, cfg.Export.ProductName)

	return &Service{
		Course:       NewCourseService(repo, loc, logger),
		WorkShift:    NewWorkShiftService(repo, loc, logger),
		Event:        NewEventService(repo, loc, logger),
		Salary:       NewSalaryService(repo, logger),
		Allowance:    NewAllowanceService(repo, logger),
		GameGuide:    NewGameGuideService(repo, logger),
		CourseNote:   NewCourseNoteService(repo, loc, logger),
		Calendar:     NewCalendarService(repo, loc, logger),
		Export:       NewExportService(repo, writer, cfg.Export.PDFFontPath, m, logger),
		Backup:       NewBackupService(repo, m, logger),
		Subscription: NewSubscriptionService(repo.Hub, logger),
	}, nil
}
