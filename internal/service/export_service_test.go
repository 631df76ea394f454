package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/export"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func setupTestExportService() (*exportService, *repository.Repository) {
	repo := newTestRepo()
	writer := calendar.NewWriter(calendar.NewExpander(taipei, 18, zap.NewNop()), "")
	svc := NewExportService(repo, writer, "", nil, zap.NewNop()).(*exportService)
	svc.now = fixedClock(testNow)
	return svc, repo
}

func TestExportService_ICS(t *testing.T) {
	svc, repo := setupTestExportService()
	seedSchedule(t, repo)

	cases := []struct {
		kind     string
		filename string
		contains string
	}{
		{ExportKindCourses, "courses.ics", "UID:course-mon-am@schedule-app"},
		{ExportKindWorkShifts, "work-schedule.ics", "UID:work-jan@schedule-app"},
		{ExportKindEvents, "events.ics", "UID:event-exam@schedule-app"},
		{ExportKindAll, "schedule-all.ics", "X-WR-CALNAME:我的完整行程"},
	}
	for _, tc := range cases {
		file, err := svc.ICS(bg, tc.kind)
		if err != nil {
			t.Fatalf("%s: ICS 應成功: %v", tc.kind, err)
		}
		if file.Filename != tc.filename || file.ContentType != calendar.ContentType {
			t.Errorf("%s: 檔名或 MIME 不符: %s %s", tc.kind, file.Filename, file.ContentType)
		}
		if !strings.Contains(string(file.Data), tc.contains) {
			t.Errorf("%s: 內容缺少 %s", tc.kind, tc.contains)
		}
	}

	if _, err := svc.ICS(bg, "salary"); !errors.Is(err, ErrUnknownExportKind) {
		t.Errorf("期望 ErrUnknownExportKind，實際: %v", err)
	}
}

func TestExportService_CSV_MonthFilter(t *testing.T) {
	svc, repo := setupTestExportService()
	seedSchedule(t, repo)

	file, err := svc.CSV(bg, ExportKindWorkShifts, &dto.ExportRequest{Month: "2026-01"})
	if err != nil {
		t.Fatalf("CSV 應成功: %v", err)
	}
	lines := strings.Split(string(file.Data), "\n")
	if len(lines) != 3 {
		t.Fatalf("期望表頭加 2 列，實際: %d", len(lines))
	}
	if lines[1] != `"2026-01-12","17:00","21:00",""` {
		t.Errorf("第一列不符: %s", lines[1])
	}
	if file.Filename != export.FilenameShiftsCSV {
		t.Errorf("檔名不符: %s", file.Filename)
	}
}

func TestExportService_CSV_InvalidRecordFailsFast(t *testing.T) {
	svc, repo := setupTestExportService()
	bad := model.SalaryRecord{ID: "bad", Date: "2026-01-10", StartTime: "09:00", EndTime: "09:30", HourlyRate: 200, BreakMinutes: 60, Role: model.RoleAssistant}
	if err := repo.SalaryRecords.Set(bg, bad); err != nil {
		t.Fatal(err)
	}

	_, err := svc.CSV(bg, ExportKindSalary, &dto.ExportRequest{})
	if _, ok := apperrors.IsValidation(err); !ok {
		t.Errorf("期望 ValidationError，實際: %v", err)
	}
}

func TestExportService_Workbook(t *testing.T) {
	svc, repo := setupTestExportService()
	seedSalary(t, repo, salaryRecord("a", "2026-01-10"))

	file, err := svc.Workbook(bg, ExportKindSalary, &dto.ExportRequest{})
	if err != nil {
		t.Fatalf("Workbook 應成功: %v", err)
	}
	if file.Filename != "薪資計算_2026-01-12.xlsx" || file.ContentType != export.XLSXContentType {
		t.Errorf("檔名或 MIME 不符: %s %s", file.Filename, file.ContentType)
	}
	if !bytes.HasPrefix(file.Data, []byte("PK")) {
		t.Error("輸出應為 zip 格式的 xlsx")
	}

	statement, err := svc.Workbook(bg, ExportKindSalaryStatement, &dto.ExportRequest{})
	if err != nil {
		t.Fatalf("Workbook 應成功: %v", err)
	}
	if statement.Filename != "打工明細_2026-01-12.xlsx" {
		t.Errorf("檔名不符: %s", statement.Filename)
	}

	if _, err := svc.Workbook(bg, ExportKindEvents, &dto.ExportRequest{}); !errors.Is(err, ErrUnknownExportKind) {
		t.Errorf("期望 ErrUnknownExportKind，實際: %v", err)
	}
}

func TestExportService_SalaryPDF(t *testing.T) {
	svc, repo := setupTestExportService()
	seedSalary(t, repo, salaryRecord("a", "2026-01-10"))

	file, err := svc.SalaryPDF(bg, &dto.ExportRequest{Month: "2026-01"})
	if err != nil {
		t.Fatalf("SalaryPDF 應成功: %v", err)
	}
	if file.Filename != "薪資報表_2026-01-12.pdf" || !bytes.HasPrefix(file.Data, []byte("%PDF")) {
		t.Errorf("PDF 輸出不符: %s", file.Filename)
	}
}
