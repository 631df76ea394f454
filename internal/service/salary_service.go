package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/export"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 薪資模組業務錯誤 ──

var (
	ErrSalaryRecordNotFound = errors.New("薪資記錄不存在")
	ErrNoShiftsToImport     = errors.New("該月份沒有新的打工班表可匯入")
)

// 由班表匯入時的預設值
const (
	shiftImportRate  = 200
	shiftImportBreak = 60
	summaryMonths    = 6
)

// SalaryService 薪資計算業務介面
type SalaryService interface {
	Create(ctx context.Context, req *dto.CreateSalaryRecordRequest) (*model.SalaryRecord, error)
	Get(ctx context.Context, id string) (*model.SalaryRecord, error)
	List(ctx context.Context, req *dto.SalaryListRequest) ([]model.SalaryRecord, error)
	Update(ctx context.Context, id string, req *dto.UpdateSalaryRecordRequest) (*model.SalaryRecord, error)
	Delete(ctx context.Context, id string) error
	BatchDelete(ctx context.Context, req *dto.BatchDeleteRequest) (int, error)
	BatchUpdateRate(ctx context.Context, req *dto.BatchUpdateRateRequest) (int, error)
	ImportFromShifts(ctx context.Context, req *dto.ImportFromShiftsRequest) (*dto.ImportFromShiftsResponse, error)
	ImportWorkbook(ctx context.Context, r io.Reader) (*dto.ImportWorkbookResponse, error)
	Summary(ctx context.Context) (*dto.SalarySummaryResponse, error)
}

type salaryService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewSalaryService 建立 SalaryService
func NewSalaryService(repo *repository.Repository, logger *zap.Logger) SalaryService {
	return &salaryService{repo: repo, now: time.Now, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

// Create 未帶時薪時使用角色預設時薪
func (s *salaryService) Create(ctx context.Context, req *dto.CreateSalaryRecordRequest) (*model.SalaryRecord, error) {
	role := model.Role(req.Role)
	rate := req.HourlyRate
	if rate == 0 {
		rate = role.DefaultRate()
	}

	rec := model.SalaryRecord{
		ID:            newID(),
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		HourlyRate:    rate,
		BreakMinutes:  req.BreakMinutes,
		Role:          role,
		ShiftCategory: req.ShiftCategory,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SalaryRecords.Set(ctx, rec); err != nil {
		s.logger.Error("新增薪資記錄失敗", zap.Error(err))
		return nil, err
	}
	return &rec, nil
}

func (s *salaryService) Get(ctx context.Context, id string) (*model.SalaryRecord, error) {
	rec, err := s.repo.SalaryRecords.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSalaryRecordNotFound)
	}
	return rec, nil
}

// List 依日期、開始時間排序
func (s *salaryService) List(ctx context.Context, req *dto.SalaryListRequest) ([]model.SalaryRecord, error) {
	all, err := s.repo.SalaryRecords.List(ctx)
	if err != nil {
		s.logger.Error("列出薪資記錄失敗", zap.Error(err))
		return nil, err
	}

	out := make([]model.SalaryRecord, 0, len(all))
	for _, rec := range all {
		if inMonth(rec.Date, req.Month) {
			out = append(out, rec)
		}
	}
	sortSalaryRecords(out)
	return out, nil
}

func (s *salaryService) Update(ctx context.Context, id string, req *dto.UpdateSalaryRecordRequest) (*model.SalaryRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		rec.Date = *req.Date
	}
	if req.StartTime != nil {
		rec.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rec.EndTime = *req.EndTime
	}
	if req.HourlyRate != nil {
		rec.HourlyRate = *req.HourlyRate
	}
	if req.BreakMinutes != nil {
		rec.BreakMinutes = *req.BreakMinutes
	}
	if req.Role != nil {
		rec.Role = model.Role(*req.Role)
	}
	if req.ShiftCategory != nil {
		rec.ShiftCategory = *req.ShiftCategory
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SalaryRecords.Set(ctx, *rec); err != nil {
		s.logger.Error("更新薪資記錄失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *salaryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SalaryRecords.Delete(ctx, id); err != nil {
		s.logger.Error("刪除薪資記錄失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Batch ──────────────────────

func (s *salaryService) BatchDelete(ctx context.Context, req *dto.BatchDeleteRequest) (int, error) {
	if err := s.repo.SalaryRecords.DeleteMany(ctx, req.IDs); err != nil {
		s.logger.Error("批次刪除薪資記錄失敗", zap.Int("count", len(req.IDs)), zap.Error(err))
		return 0, err
	}
	return len(req.IDs), nil
}

// BatchUpdateRate 任一 ID 不存在時整批不套用
func (s *salaryService) BatchUpdateRate(ctx context.Context, req *dto.BatchUpdateRateRequest) (int, error) {
	for _, id := range req.IDs {
		if _, err := s.Get(ctx, id); err != nil {
			return 0, err
		}
	}

	updated := 0
	for _, id := range req.IDs {
		if err := s.repo.SalaryRecords.Update(ctx, id, map[string]interface{}{"hourlyRate": req.HourlyRate}); err != nil {
			s.logger.Error("批次修改時薪失敗", zap.String("id", id), zap.Error(err))
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// ────────────────────── ImportFromShifts ──────────────────────

// ImportFromShifts 已匯入過的班次（以 workShiftId 判斷）不重複建立
func (s *salaryService) ImportFromShifts(ctx context.Context, req *dto.ImportFromShiftsRequest) (*dto.ImportFromShiftsResponse, error) {
	records, err := s.repo.SalaryRecords.List(ctx)
	if err != nil {
		return nil, err
	}
	imported := make(map[string]bool, len(records))
	for _, r := range records {
		if r.WorkShiftID != "" {
			imported[r.WorkShiftID] = true
		}
	}

	shifts, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		return nil, err
	}
	sortWorkShifts(shifts)

	stamp := s.now().UnixMilli()
	result := &dto.ImportFromShiftsResponse{Records: []model.SalaryRecord{}}
	for _, shift := range shifts {
		if !inMonth(shift.Date, req.Month) || imported[shift.ID] {
			continue
		}
		rec := model.SalaryRecord{
			ID:            fmt.Sprintf("shift-%s-%d", shift.ID, stamp),
			Date:          shift.Date,
			StartTime:     shift.StartTime,
			EndTime:       shift.EndTime,
			HourlyRate:    shiftImportRate,
			BreakMinutes:  shiftImportBreak,
			Role:          model.RoleAssistant,
			ShiftCategory: shift.Note,
			WorkShiftID:   shift.ID,
		}
		if err := rec.Validate(); err != nil {
			// 班次短於預設休息時間
			s.logger.Warn("略過無法轉換的班次", zap.String("shift_id", shift.ID), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return nil, ErrNoShiftsToImport
	}
	if err := s.repo.SalaryRecords.SetMany(ctx, result.Records); err != nil {
		s.logger.Error("由班表匯入薪資記錄失敗", zap.Error(err))
		return nil, err
	}
	result.Imported = len(result.Records)
	return result, nil
}

// ────────────────────── ImportWorkbook ──────────────────────

// ImportWorkbook 單列錯誤不影響其他列；整份檔案無法讀取時回傳 ParseError
// 沒有任何可匯入的記錄時不寫入，錯誤明細放在回應中
func (s *salaryService) ImportWorkbook(ctx context.Context, r io.Reader) (*dto.ImportWorkbookResponse, error) {
	res, err := export.ParseSalaryWorkbook(r, newID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ImportWorkbookResponse{
		Imported: len(res.Records),
		Errors:   res.Errors,
		Warnings: res.Warnings,
	}
	if len(res.Records) == 0 {
		return resp, nil
	}

	if err := s.repo.SalaryRecords.SetMany(ctx, res.Records); err != nil {
		s.logger.Error("匯入薪資活頁簿失敗", zap.Error(err))
		return nil, err
	}

	s.logger.Info("薪資活頁簿匯入完成",
		zap.Int("imported", len(res.Records)),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return resp, nil
}

// ────────────────────── Summary ──────────────────────

// Summary 總薪資、總時數與最近六個月（依月份遞增）的統計
func (s *salaryService) Summary(ctx context.Context) (*dto.SalarySummaryResponse, error) {
	records, err := s.repo.SalaryRecords.List(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(records), nil
}

func summarize(records []model.SalaryRecord) *dto.SalarySummaryResponse {
	out := &dto.SalarySummaryResponse{RecordCount: len(records), MonthlyStats: []dto.MonthlyStat{}}
	byMonth := make(map[string]*dto.MonthlyStat)

	for _, r := range records {
		pay := r.Pay()
		hours := r.WorkHours()
		out.TotalPay += pay
		out.TotalHours += hours

		if len(r.Date) < 7 {
			continue
		}
		month := r.Date[:7]
		stat, ok := byMonth[month]
		if !ok {
			stat = &dto.MonthlyStat{Month: month}
			byMonth[month] = stat
		}
		stat.TotalPay += pay
		stat.TotalHours += hours
		stat.RecordCount++
	}

	for _, stat := range byMonth {
		stat.TotalHours = roundHours(stat.TotalHours)
		out.MonthlyStats = append(out.MonthlyStats, *stat)
	}
	sort.Slice(out.MonthlyStats, func(i, j int) bool { return out.MonthlyStats[i].Month < out.MonthlyStats[j].Month })
	if len(out.MonthlyStats) > summaryMonths {
		out.MonthlyStats = out.MonthlyStats[len(out.MonthlyStats)-summaryMonths:]
	}
	out.TotalHours = roundHours(out.TotalHours)
	return out
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
