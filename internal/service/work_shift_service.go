package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 打工班表模組業務錯誤 ──

var (
	ErrWorkShiftNotFound = errors.New("班次不存在")
	ErrShiftDateOccupied = errors.New("此日期已有班次，無法複製")
	ErrTemplateNotFound  = errors.New("班次範本不存在")
	ErrNothingToCopy     = errors.New("沒有班表可以複製")
)

// ShiftTemplate 班次範本
type ShiftTemplate struct {
	Name      string
	StartTime string
	EndTime   string
	Note      string
}

// ShiftTemplates 內建班次範本
var ShiftTemplates = []ShiftTemplate{
	{Name: "秋季班", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"},
	{Name: "冬令營助教", StartTime: "09:00", EndTime: "18:00", Note: "冬令營助教"},
	{Name: "半天班 (上午)", StartTime: "09:00", EndTime: "13:00", Note: "半天班"},
	{Name: "半天班 (下午)", StartTime: "13:00", EndTime: "18:00", Note: "半天班"},
}

// WorkShiftService 打工班表業務介面
type WorkShiftService interface {
	Create(ctx context.Context, req *dto.CreateWorkShiftRequest) (*model.WorkShift, error)
	Get(ctx context.Context, id string) (*model.WorkShift, error)
	List(ctx context.Context, req *dto.WorkShiftListRequest) ([]model.WorkShift, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkShiftRequest) (*model.WorkShift, error)
	Delete(ctx context.Context, id string) error
	Copy(ctx context.Context, id string, req *dto.CopyWorkShiftRequest) (*model.WorkShift, error)
	Templates() []dto.ShiftTemplateResponse
	ApplyTemplate(ctx context.Context, req *dto.ApplyTemplateRequest) (*dto.ApplyTemplateResponse, error)
	CopyLastWeek(ctx context.Context) ([]model.WorkShift, error)
	CopyLastMonth(ctx context.Context) ([]model.WorkShift, error)
}

type workShiftService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewWorkShiftService loc 決定「本週」「本月」的邊界
func NewWorkShiftService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) WorkShiftService {
	return &workShiftService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *workShiftService) Create(ctx context.Context, req *dto.CreateWorkShiftRequest) (*model.WorkShift, error) {
	shift := model.WorkShift{
		ID:        newID(),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.WorkShifts.Set(ctx, shift); err != nil {
		s.logger.Error("新增班次失敗", zap.Error(err))
		return nil, err
	}
	return &shift, nil
}

func (s *workShiftService) Get(ctx context.Context, id string) (*model.WorkShift, error) {
	shift, err := s.repo.WorkShifts.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrWorkShiftNotFound)
	}
	return shift, nil
}

func (s *workShiftService) List(ctx context.Context, req *dto.WorkShiftListRequest) ([]model.WorkShift, error) {
	all, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		s.logger.Error("列出班次失敗", zap.Error(err))
		return nil, err
	}

	result := make([]model.WorkShift, 0, len(all))
	for _, shift := range all {
		if inMonth(shift.Date, req.Month) {
			result = append(result, shift)
		}
	}
	sortWorkShifts(result)
	return result, nil
}

func (s *workShiftService) Update(ctx context.Context, id string, req *dto.UpdateWorkShiftRequest) (*model.WorkShift, error) {
	shift, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Note != nil {
		shift.Note = *req.Note
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.WorkShifts.Set(ctx, *shift); err != nil {
		s.logger.Error("更新班次失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return shift, nil
}

func (s *workShiftService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.WorkShifts.Delete(ctx, id); err != nil {
		s.logger.Error("刪除班次失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Copy ──────────────────────

// Copy 目標日期已有任何班次時拒絕
func (s *workShiftService) Copy(ctx context.Context, id string, req *dto.CopyWorkShiftRequest) (*model.WorkShift, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupiedDates(ctx)
	if err != nil {
		return nil, err
	}
	if occupied[req.TargetDate] {
		return nil, ErrShiftDateOccupied
	}

	shift := model.WorkShift{
		ID:        newID(),
		Date:      req.TargetDate,
		StartTime: source.StartTime,
		EndTime:   source.EndTime,
		Note:      source.Note,
	}
	if err := s.repo.WorkShifts.Set(ctx, shift); err != nil {
		s.logger.Error("複製班次失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &shift, nil
}

// ────────────────────── Templates ──────────────────────

func (s *workShiftService) Templates() []dto.ShiftTemplateResponse {
	out := make([]dto.ShiftTemplateResponse, 0, len(ShiftTemplates))
	for _, t := range ShiftTemplates {
		out = append(out, dto.ShiftTemplateResponse{Name: t.Name, StartTime: t.StartTime, EndTime: t.EndTime})
	}
	return out
}

// ApplyTemplate 只在沒有班次的日期建立，已有班次或重複的日期列入 SkippedDates
func (s *workShiftService) ApplyTemplate(ctx context.Context, req *dto.ApplyTemplateRequest) (*dto.ApplyTemplateResponse, error) {
	tmpl, ok := findTemplate(req.Template)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	occupied, err := s.occupiedDates(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.ApplyTemplateResponse{SkippedDates: []string{}}
	created := make([]model.WorkShift, 0, len(req.Dates))
	for _, date := range req.Dates {
		if occupied[date] {
			result.SkippedDates = append(result.SkippedDates, date)
			continue
		}
		occupied[date] = true
		created = append(created, model.WorkShift{
			ID:        newID(),
			Date:      date,
			StartTime: tmpl.StartTime,
			EndTime:   tmpl.EndTime,
			Note:      tmpl.Note,
		})
	}

	if len(created) > 0 {
		if err := s.repo.WorkShifts.SetMany(ctx, created); err != nil {
			s.logger.Error("套用班次範本失敗", zap.String("template", tmpl.Name), zap.Error(err))
			return nil, err
		}
	}
	result.Created = len(created)
	return result, nil
}

func findTemplate(name string) (ShiftTemplate, bool) {
	for _, t := range ShiftTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return ShiftTemplate{}, false
}

// ────────────────────── CopyLastWeek / CopyLastMonth ──────────────────────

// CopyLastWeek 將過去七天的班次各往後移七天
func (s *workShiftService) CopyLastWeek(ctx context.Context) ([]model.WorkShift, error) {
	today := s.today()
	from := today.AddDate(0, 0, -7).Format(model.DateLayout)
	to := today.AddDate(0, 0, -1).Format(model.DateLayout)

	return s.copyRange(ctx, from, to, func(d time.Time) (time.Time, bool) {
		return d.AddDate(0, 0, 7), true
	})
}

// CopyLastMonth 將上個月的班次複製到本月同一天，本月沒有的日期（如 2/30）略過
func (s *workShiftService) CopyLastMonth(ctx context.Context) ([]model.WorkShift, error) {
	today := s.today()
	thisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	from := lastMonth.Format(model.DateLayout)
	to := thisMonth.AddDate(0, 0, -1).Format(model.DateLayout)

	return s.copyRange(ctx, from, to, func(d time.Time) (time.Time, bool) {
		target := time.Date(thisMonth.Year(), thisMonth.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		return target, target.Month() == thisMonth.Month()
	})
}

func (s *workShiftService) copyRange(ctx context.Context, from, to string, shift func(time.Time) (time.Time, bool)) ([]model.WorkShift, error) {
	all, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		return nil, err
	}

	var created []model.WorkShift
	for _, src := range all {
		if src.Date < from || src.Date > to {
			continue
		}
		d, err := time.Parse(model.DateLayout, src.Date)
		if err != nil {
			continue
		}
		target, ok := shift(d)
		if !ok {
			continue
		}
		created = append(created, model.WorkShift{
			ID:        newID(),
			Date:      target.Format(model.DateLayout),
			StartTime: src.StartTime,
			EndTime:   src.EndTime,
			Note:      src.Note,
		})
	}
	if len(created) == 0 {
		return nil, ErrNothingToCopy
	}

	if err := s.repo.WorkShifts.SetMany(ctx, created); err != nil {
		s.logger.Error("複製班表失敗", zap.Error(err))
		return nil, err
	}
	sortWorkShifts(created)
	return created, nil
}

func (s *workShiftService) occupiedDates(ctx context.Context) (map[string]bool, error) {
	all, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool, len(all))
	for _, shift := range all {
		occupied[shift.Date] = true
	}
	return occupied, nil
}

// today 以 UTC 午夜表示本地日期，方便做日期運算
func (s *workShiftService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
