package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/backup"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
)

// BackupService 完整備份與還原
type BackupService interface {
	// Export 目前的課程、班次、事件；theme 原樣寫入信封
	Export(ctx context.Context, theme string) (*ExportFile, error)
	// Validate 只檢查上傳內容，不寫入
	Validate(ctx context.Context, raw []byte) (*backup.Result, error)
	// Import 全有或全無：驗證未通過時不觸碰儲存
	Import(ctx context.Context, raw []byte) (*dto.BackupImportResponse, error)
}

type backupService struct {
	repo    *repository.Repository
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewBackupService 建立 BackupService
func NewBackupService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) BackupService {
	return &backupService{repo: repo, now: time.Now, metrics: m, logger: logger}
}

// ────────────────────── Export ──────────────────────

func (s *backupService) Export(ctx context.Context, theme string) (*ExportFile, error) {
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

	now := s.now()
	data, err := backup.Marshal(backup.Encode(courses, shifts, events, theme, now))
	if err != nil {
		s.logger.Error("序列化備份失敗", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	s.metrics.RecordExport("json", "backup")
	return &ExportFile{Filename: backup.Filename(now), ContentType: backup.ContentType, Data: data}, nil
}

// ────────────────────── Validate ──────────────────────

func (s *backupService) Validate(ctx context.Context, raw []byte) (*backup.Result, error) {
	env, err := backup.Decode(raw)
	if err != nil {
		return nil, err
	}
	result := backup.Validate(env)
	return &result, nil
}

// ────────────────────── Import ──────────────────────

func (s *backupService) Import(ctx context.Context, raw []byte) (*dto.BackupImportResponse, error) {
	env, err := backup.Decode(raw)
	if err != nil {
		s.logger.Warn("備份檔案無法解析", zap.Error(err))
		return nil, err
	}
	if result := backup.Validate(env); !result.Valid {
		s.logger.Warn("備份檔案驗證失敗", zap.Strings("errors", result.Errors))
		return nil, apperrors.NewValidationError(result.Errors...)
	}

	if err := s.repo.Courses.ReplaceAll(ctx, env.Courses); err != nil {
		s.logger.Error("還原課程失敗", zap.Error(err))
		return nil, err
	}
	if err := s.repo.WorkShifts.ReplaceAll(ctx, env.WorkShifts); err != nil {
		s.logger.Error("還原班次失敗", zap.Error(err))
		return nil, err
	}
	if err := s.repo.Events.ReplaceAll(ctx, env.Events); err != nil {
		s.logger.Error("還原事件失敗", zap.Error(err))
		return nil, err
	}

	s.logger.Info("備份還原完成",
		zap.Int("courses", len(env.Courses)),
		zap.Int("workShifts", len(env.WorkShifts)),
		zap.Int("events", len(env.Events)),
	)
	return &dto.BackupImportResponse{
		Courses:    len(env.Courses),
		WorkShifts: len(env.WorkShifts),
		Events:     len(env.Events),
	}, nil
}
