package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

const (
	// dashboardCourseLimit 儀表板今日課程最多筆數
	dashboardCourseLimit = 5
	// workLocationLabel 班次沒有地點欄位時顯示的文字
	workLocationLabel = "工作地點"
)

// CalendarService 月曆與首頁儀表板
type CalendarService interface {
	MonthView(ctx context.Context, req *dto.MonthViewRequest) (*dto.MonthViewResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService loc 決定今天與目前時間
func NewCalendarService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CalendarService {
	if loc == nil {
		loc = time.Local
	}
	return &calendarService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

type scheduleState struct {
	courses []model.Course
	shifts  []model.WorkShift
	events  []model.Event
}

func (s *calendarService) loadState(ctx context.Context) (*scheduleState, error) {
	courses, err := s.repo.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	sortCourses(courses)
	sortWorkShifts(shifts)
	sortEvents(events)
	return &scheduleState{courses: courses, shifts: shifts, events: events}, nil
}

// ────────────────────── 月曆 ──────────────────────

func (s *calendarService) MonthView(ctx context.Context, req *dto.MonthViewRequest) (*dto.MonthViewResponse, error) {
	now := s.now().In(s.loc)
	year, month := now.Year(), now.Month()
	if req.Year != 0 {
		year = req.Year
	}
	if req.Month != 0 {
		month = time.Month(req.Month)
	}

	state, err := s.loadState(ctx)
	if err != nil {
		s.logger.Error("讀取月曆資料失敗", zap.Error(err))
		return nil, err
	}

	grid := calendar.BuildMonthGrid(year, month)
	days := make([]dto.DayEntries, 0, grid.Days)
	for _, cell := range grid.Cells {
		if cell.Day == 0 {
			continue
		}
		days = append(days, dto.DayEntries{
			Date:       cell.Date,
			Courses:    coursesOnWeekday(state.courses, cell.Weekday),
			WorkShifts: shiftsOnDate(state.shifts, cell.Date),
			Events:     eventsOnDate(state.events, cell.Date),
		})
	}

	return &dto.MonthViewResponse{Grid: grid, Days: days}, nil
}

// ────────────────────── 儀表板 ──────────────────────

func (s *calendarService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now().In(s.loc)
	today := now.Format(model.DateLayout)
	clock := now.Format("15:04")
	month := now.Format("2006-01")

	state, err := s.loadState(ctx)
	if err != nil {
		s.logger.Error("讀取儀表板資料失敗", zap.Error(err))
		return nil, err
	}

	todayCourses := coursesOnWeekday(state.courses, calendar.ISOWeekday(now.Weekday()))
	todayShifts := shiftsOnDate(state.shifts, today)

	monthShifts := make([]model.WorkShift, 0)
	for _, w := range state.shifts {
		if inMonth(w.Date, month) {
			monthShifts = append(monthShifts, w)
		}
	}

	weekly := 0
	for _, c := range state.courses {
		if c.Day >= 1 && c.Day <= 7 {
			weekly++
		}
	}

	out := &dto.DashboardResponse{
		Today:            today,
		Now:              clock,
		WeeklyClassCount: weekly,
		MonthWorkDays:    len(monthShifts),
		TodayCourses:     todayCourses,
		MonthWorkShifts:  monthShifts,
		UpcomingEvents:   upcomingEvents(state.events, today),
	}
	if len(out.TodayCourses) > dashboardCourseLimit {
		out.TodayCourses = out.TodayCourses[:dashboardCourseLimit]
	}

	entries := todayEntries(todayCourses, todayShifts)
	for i := range entries {
		e := entries[i]
		if out.CurrentEntry == nil && e.StartTime <= clock && e.EndTime > clock {
			out.CurrentEntry = &e
		}
	}

	// 下一個行程：尚未開始者依開始時間最早
	upcoming := make([]dto.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if e.StartTime > clock {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartTime < upcoming[j].StartTime })
	if len(upcoming) > 0 {
		out.NextEntry = &upcoming[0]
	}

	return out, nil
}

// todayEntries 課程在前、班次在後
func todayEntries(courses []model.Course, shifts []model.WorkShift) []dto.ScheduleEntry {
	entries := make([]dto.ScheduleEntry, 0, len(courses)+len(shifts))
	for _, c := range courses {
		entries = append(entries, dto.ScheduleEntry{
			Kind:      "class",
			ID:        c.ID,
			Title:     c.Name,
			Location:  c.Location,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	}
	for _, w := range shifts {
		title := w.Note
		if title == "" {
			title = "打工"
		}
		entries = append(entries, dto.ScheduleEntry{
			Kind:      "work",
			ID:        w.ID,
			Title:     title,
			Location:  workLocationLabel,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}
	return entries
}

// coursesOnWeekday weekday 為 1-7；課程的 0 與 7 都視為週日
func coursesOnWeekday(courses []model.Course, weekday int) []model.Course {
	out := make([]model.Course, 0)
	for _, c := range courses {
		if c.Day%7 == weekday%7 {
			out = append(out, c)
		}
	}
	return out
}

func shiftsOnDate(shifts []model.WorkShift, date string) []model.WorkShift {
	out := make([]model.WorkShift, 0)
	for _, w := range shifts {
		if w.Date == date {
			out = append(out, w)
		}
	}
	return out
}

func eventsOnDate(events []model.Event, date string) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}
