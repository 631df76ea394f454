package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/export"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func setupTestSalaryService() (*salaryService, *repository.Repository) {
	repo := newTestRepo()
	svc := NewSalaryService(repo, zap.NewNop()).(*salaryService)
	svc.now = fixedClock(testNow)
	return svc, repo
}

func seedSalary(t *testing.T, repo *repository.Repository, records ...model.SalaryRecord) {
	t.Helper()
	if err := repo.SalaryRecords.SetMany(bg, records); err != nil {
		t.Fatalf("準備薪資記錄失敗: %v", err)
	}
}

func salaryRecord(id, date string) model.SalaryRecord {
	return model.SalaryRecord{
		ID: id, Date: date, StartTime: "09:00", EndTime: "18:00",
		HourlyRate: 200, BreakMinutes: 60, Role: model.RoleAssistant,
	}
}

// ═══════════════════════════════════════════════════════════
// CRUD
// ═══════════════════════════════════════════════════════════

func TestSalaryService_Create_DefaultRateByRole(t *testing.T) {
	svc, _ := setupTestSalaryService()

	rec, err := svc.Create(bg, &dto.CreateSalaryRecordRequest{
		Date: "2026-01-10", StartTime: "09:00", EndTime: "12:00", Role: "instructor",
	})
	if err != nil {
		t.Fatalf("Create 應成功: %v", err)
	}
	if rec.HourlyRate != 350 {
		t.Errorf("講師預設時薪應為 350，實際: %v", rec.HourlyRate)
	}
	if rec.Pay() != 1050 {
		t.Errorf("期望薪資 1050，實際: %v", rec.Pay())
	}
}

func TestSalaryService_Create_BreakLongerThanShift(t *testing.T) {
	svc, _ := setupTestSalaryService()

	_, err := svc.Create(bg, &dto.CreateSalaryRecordRequest{
		Date: "2026-01-10", StartTime: "09:00", EndTime: "10:00", BreakMinutes: 60, Role: "assistant",
	})
	if _, ok := apperrors.IsValidation(err); !ok {
		t.Errorf("期望 ValidationError，實際: %v", err)
	}
}

func TestSalaryService_List_MonthAndOrder(t *testing.T) {
	svc, repo := setupTestSalaryService()
	late := salaryRecord("late", "2026-01-10")
	late.StartTime = "13:00"
	seedSalary(t, repo, late, salaryRecord("early", "2026-01-10"), salaryRecord("dec", "2025-12-31"))

	records, err := svc.List(bg, &dto.SalaryListRequest{Month: "2026-01"})
	if err != nil {
		t.Fatalf("List 應成功: %v", err)
	}
	if len(records) != 2 || records[0].ID != "early" || records[1].ID != "late" {
		t.Errorf("篩選或排序不符: %+v", records)
	}
}

func TestSalaryService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestSalaryService()

	_, err := svc.Update(bg, "missing", &dto.UpdateSalaryRecordRequest{HourlyRate: floatPtr(250)})
	if !errors.Is(err, ErrSalaryRecordNotFound) {
		t.Errorf("期望 ErrSalaryRecordNotFound，實際: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Batch
// ═══════════════════════════════════════════════════════════

func TestSalaryService_BatchDelete(t *testing.T) {
	svc, repo := setupTestSalaryService()
	seedSalary(t, repo, salaryRecord("a", "2026-01-01"), salaryRecord("b", "2026-01-02"), salaryRecord("c", "2026-01-03"))

	n, err := svc.BatchDelete(bg, &dto.BatchDeleteRequest{IDs: []string{"a", "c"}})
	if err != nil {
		t.Fatalf("BatchDelete 應成功: %v", err)
	}
	if n != 2 {
		t.Errorf("期望刪除 2 筆，實際: %d", n)
	}
	left, _ := repo.SalaryRecords.List(bg)
	if len(left) != 1 || left[0].ID != "b" {
		t.Errorf("剩餘記錄不符: %+v", left)
	}
}

func TestSalaryService_BatchUpdateRate_AllOrNothing(t *testing.T) {
	svc, repo := setupTestSalaryService()
	seedSalary(t, repo, salaryRecord("a", "2026-01-01"), salaryRecord("b", "2026-01-02"))

	if _, err := svc.BatchUpdateRate(bg, &dto.BatchUpdateRateRequest{IDs: []string{"a", "missing"}, HourlyRate: 250}); !errors.Is(err, ErrSalaryRecordNotFound) {
		t.Fatalf("期望 ErrSalaryRecordNotFound，實際: %v", err)
	}
	a, _ := svc.Get(bg, "a")
	if a.HourlyRate != 200 {
		t.Errorf("有不存在的 ID 時不應修改任何記錄，實際時薪: %v", a.HourlyRate)
	}

	n, err := svc.BatchUpdateRate(bg, &dto.BatchUpdateRateRequest{IDs: []string{"a", "b"}, HourlyRate: 250})
	if err != nil {
		t.Fatalf("BatchUpdateRate 應成功: %v", err)
	}
	if n != 2 {
		t.Errorf("期望更新 2 筆，實際: %d", n)
	}
	b, _ := svc.Get(bg, "b")
	if b.HourlyRate != 250 {
		t.Errorf("期望時薪 250，實際: %v", b.HourlyRate)
	}
}

// ═══════════════════════════════════════════════════════════
// ImportFromShifts
// ═══════════════════════════════════════════════════════════

func TestSalaryService_ImportFromShifts(t *testing.T) {
	svc, repo := setupTestSalaryService()
	seedShifts(t, repo,
		model.WorkShift{ID: "s1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"},
		model.WorkShift{ID: "s2", Date: "2026-01-11", StartTime: "09:00", EndTime: "09:30"},
		model.WorkShift{ID: "s3", Date: "2026-02-01", StartTime: "09:00", EndTime: "18:00"},
	)

	result, err := svc.ImportFromShifts(bg, &dto.ImportFromShiftsRequest{Month: "2026-01"})
	if err != nil {
		t.Fatalf("ImportFromShifts 應成功: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("期望匯入 1、略過 1，實際: %+v", result)
	}

	rec := result.Records[0]
	if wantID := fmt.Sprintf("shift-s1-%d", testNow.UnixMilli()); rec.ID != wantID {
		t.Errorf("ID 格式不符: %s", rec.ID)
	}
	if rec.Role != model.RoleAssistant || rec.HourlyRate != 200 || rec.BreakMinutes != 60 {
		t.Errorf("預設值不符: %+v", rec)
	}
	if rec.ShiftCategory != "秋季班" || rec.WorkShiftID != "s1" {
		t.Errorf("班次資訊不符: %+v", rec)
	}
	if rec.Pay() != 1600 {
		t.Errorf("期望薪資 1600，實際: %v", rec.Pay())
	}

	// 第二次匯入：已匯入的班次不重複
	if _, err := svc.ImportFromShifts(bg, &dto.ImportFromShiftsRequest{Month: "2026-01"}); !errors.Is(err, ErrNoShiftsToImport) {
		t.Errorf("期望 ErrNoShiftsToImport，實際: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// ImportWorkbook
// ═══════════════════════════════════════════════════════════

func TestSalaryService_ImportWorkbook(t *testing.T) {
	svc, repo := setupTestSalaryService()
	source := []model.SalaryRecord{salaryRecord("x1", "2026-01-05"), salaryRecord("x2", "2026-01-06")}
	source[0].ShiftCategory = "秋季班"
	source[1].ShiftCategory = "冬令營助教"
	data, err := export.SalaryStatementWorkbook(source)
	if err != nil {
		t.Fatalf("產生活頁簿失敗: %v", err)
	}

	result, err := svc.ImportWorkbook(bg, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportWorkbook 應成功: %v", err)
	}
	if result.Imported != 2 || len(result.Errors) != 0 {
		t.Errorf("匯入結果不符: %+v", result)
	}

	stored, _ := repo.SalaryRecords.List(bg)
	if len(stored) != 2 {
		t.Fatalf("期望儲存 2 筆，實際: %d", len(stored))
	}
}

func TestSalaryService_ImportWorkbook_NotAWorkbook(t *testing.T) {
	svc, _ := setupTestSalaryService()

	_, err := svc.ImportWorkbook(bg, strings.NewReader("not xlsx"))
	var pe *apperrors.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("期望 ParseError，實際: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Summary
// ═══════════════════════════════════════════════════════════

func TestSalaryService_Summary_LastSixMonths(t *testing.T) {
	svc, repo := setupTestSalaryService()
	seedSalary(t, repo,
		salaryRecord("m07", "2025-07-01"),
		salaryRecord("m08", "2025-08-01"),
		salaryRecord("m09", "2025-09-01"),
		salaryRecord("m10", "2025-10-01"),
		salaryRecord("m11", "2025-11-01"),
		salaryRecord("m12", "2025-12-01"),
		salaryRecord("m01a", "2026-01-01"),
		salaryRecord("m01b", "2026-01-02"),
	)

	summary, err := svc.Summary(bg)
	if err != nil {
		t.Fatalf("Summary 應成功: %v", err)
	}
	if summary.RecordCount != 8 || summary.TotalPay != 12800 || summary.TotalHours != 64 {
		t.Errorf("總計不符: %+v", summary)
	}
	if len(summary.MonthlyStats) != 6 {
		t.Fatalf("期望 6 個月，實際: %d", len(summary.MonthlyStats))
	}
	if summary.MonthlyStats[0].Month != "2025-08" {
		t.Errorf("最早月份應為 2025-08，實際: %s", summary.MonthlyStats[0].Month)
	}
	last := summary.MonthlyStats[5]
	if last.Month != "2026-01" || last.RecordCount != 2 || last.TotalPay != 3200 {
		t.Errorf("2026-01 統計不符: %+v", last)
	}
}
