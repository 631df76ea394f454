package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func setupTestBackupService() (*backupService, *repository.Repository) {
	repo := newTestRepo()
	svc := NewBackupService(repo, nil, zap.NewNop()).(*backupService)
	svc.now = fixedClock(testNow)
	return svc, repo
}

func TestBackupService_ExportImportRoundTrip(t *testing.T) {
	svc, repo := setupTestBackupService()
	seedSchedule(t, repo)

	file, err := svc.Export(bg, "dark")
	if err != nil {
		t.Fatalf("Export 應成功: %v", err)
	}
	if file.Filename != "schedule-backup-2026-01-12.json" {
		t.Errorf("檔名不符: %s", file.Filename)
	}
	if !strings.Contains(string(file.Data), `"theme": "dark"`) {
		t.Error("備份應包含主題")
	}

	// 還原到另一個空的儲存
	target, targetRepo := setupTestBackupService()
	result, err := target.Import(bg, file.Data)
	if err != nil {
		t.Fatalf("Import 應成功: %v", err)
	}
	if result.Courses != 3 || result.WorkShifts != 3 || result.Events != 2 {
		t.Errorf("還原筆數不符: %+v", result)
	}
	courses, _ := targetRepo.Courses.List(bg)
	if len(courses) != 3 {
		t.Errorf("期望 3 門課程，實際: %d", len(courses))
	}
}

func TestBackupService_Import_ReplacesExistingState(t *testing.T) {
	svc, repo := setupTestBackupService()
	seedSchedule(t, repo)

	raw := `{"version":"1.0","exportDate":"2026-01-12T02:00:00.000Z",` +
		`"courses":[{"id":"new","name":"演算法","day":2,"startTime":"10:10","endTime":"12:00"}],` +
		`"workShifts":[],"events":[]}`
	if _, err := svc.Import(bg, []byte(raw)); err != nil {
		t.Fatalf("Import 應成功: %v", err)
	}

	courses, _ := repo.Courses.List(bg)
	if len(courses) != 1 || courses[0].ID != "new" {
		t.Errorf("課程應被整批取代，實際: %+v", courses)
	}
	shifts, _ := repo.WorkShifts.List(bg)
	if len(shifts) != 0 {
		t.Errorf("班次應被清空，實際: %d", len(shifts))
	}
}

func TestBackupService_Import_InvalidLeavesStoreUntouched(t *testing.T) {
	svc, repo := setupTestBackupService()
	seedSchedule(t, repo)

	raw := `{"version":"1.0","exportDate":"2026-01-12T02:00:00.000Z",` +
		`"courses":[],"workShifts":[{"id":"s1","date":"2026-01-10","endTime":"18:00"}],"events":[]}`
	_, err := svc.Import(bg, []byte(raw))
	v, ok := apperrors.IsValidation(err)
	if !ok {
		t.Fatalf("期望 ValidationError，實際: %v", err)
	}
	if len(v.Errors) != 1 || v.Errors[0] != "打工班表 #1 資料不完整" {
		t.Errorf("驗證訊息不符: %v", v.Errors)
	}

	courses, _ := repo.Courses.List(bg)
	if len(courses) != 3 {
		t.Errorf("驗證失敗時不應觸碰儲存，實際課程數: %d", len(courses))
	}
}

func TestBackupService_Import_NotJSON(t *testing.T) {
	svc, _ := setupTestBackupService()

	_, err := svc.Import(bg, []byte("{broken"))
	var pe *apperrors.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("期望 ParseError，實際: %v", err)
	}
}

func TestBackupService_Validate(t *testing.T) {
	svc, _ := setupTestBackupService()

	raw, _ := json.Marshal(map[string]interface{}{
		"version":    "1.0",
		"courses":    "oops",
		"workShifts": []model.WorkShift{},
	})
	result, err := svc.Validate(bg, raw)
	if err != nil {
		t.Fatalf("Validate 應成功: %v", err)
	}
	if result.Valid {
		t.Fatal("期望驗證不通過")
	}
	want := []string{"缺少匯出日期", "課程資料格式錯誤", "事件資料格式錯誤"}
	if strings.Join(result.Errors, "|") != strings.Join(want, "|") {
		t.Errorf("期望 %v，實際: %v", want, result.Errors)
	}
}
