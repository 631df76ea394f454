package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// ── 生活費模組業務錯誤 ──

var (
	ErrAllowanceNotFound  = errors.New("生活費記錄不存在")
	ErrUnknownSourceType  = errors.New("來源類型不存在")
	ErrSourceTypeExists   = errors.New("來源類型已存在")
	ErrDefaultSourceType  = errors.New("無法刪除預設來源類型")
	ErrSourceTypeNotFound = errors.New("找不到此來源類型")
)

// AllowanceService 生活費記帳業務介面
type AllowanceService interface {
	Create(ctx context.Context, req *dto.CreateAllowanceRequest) (*model.AllowanceRecord, error)
	Get(ctx context.Context, id string) (*model.AllowanceRecord, error)
	List(ctx context.Context) ([]model.AllowanceRecord, error)
	Update(ctx context.Context, id string, req *dto.UpdateAllowanceRequest) (*model.AllowanceRecord, error)
	Delete(ctx context.Context, id string) error
	CopyText(ctx context.Context, id string) (string, error)
	SourceTypes(ctx context.Context) ([]string, error)
	AddSourceType(ctx context.Context, name string) ([]string, error)
	DeleteSourceType(ctx context.Context, name string) ([]string, error)
}

type allowanceService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewAllowanceService 建立 AllowanceService
func NewAllowanceService(repo *repository.Repository, logger *zap.Logger) AllowanceService {
	return &allowanceService{repo: repo, now: time.Now, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *allowanceService) Create(ctx context.Context, req *dto.CreateAllowanceRequest) (*model.AllowanceRecord, error) {
	if err := s.checkSourceType(ctx, req.SourceType); err != nil {
		return nil, err
	}

	ms := s.now().UnixMilli()
	rec := model.AllowanceRecord{
		ID:           fmt.Sprintf("allowance-%d", ms),
		Date:         req.Date,
		Amount:       req.Amount,
		TotalBalance: req.TotalBalance,
		XiaoBalance:  req.XiaoBalance,
		SourceType:   req.SourceType,
		Note:         strings.TrimSpace(req.Note),
		Timestamp:    ms,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.AllowanceRecords.Set(ctx, rec); err != nil {
		s.logger.Error("新增生活費記錄失敗", zap.Error(err))
		return nil, err
	}
	return &rec, nil
}

func (s *allowanceService) Get(ctx context.Context, id string) (*model.AllowanceRecord, error) {
	rec, err := s.repo.AllowanceRecords.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrAllowanceNotFound)
	}
	return rec, nil
}

// List 最新建立的在前
func (s *allowanceService) List(ctx context.Context) ([]model.AllowanceRecord, error) {
	records, err := s.repo.AllowanceRecords.List(ctx)
	if err != nil {
		s.logger.Error("列出生活費記錄失敗", zap.Error(err))
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })
	return records, nil
}

func (s *allowanceService) Update(ctx context.Context, id string, req *dto.UpdateAllowanceRequest) (*model.AllowanceRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		rec.Date = *req.Date
	}
	if req.Amount != nil {
		rec.Amount = *req.Amount
	}
	if req.TotalBalance != nil {
		rec.TotalBalance = *req.TotalBalance
	}
	if req.XiaoBalance != nil {
		rec.XiaoBalance = *req.XiaoBalance
	}
	if req.SourceType != nil && *req.SourceType != rec.SourceType {
		if err := s.checkSourceType(ctx, *req.SourceType); err != nil {
			return nil, err
		}
		rec.SourceType = *req.SourceType
	}
	if req.Note != nil {
		rec.Note = strings.TrimSpace(*req.Note)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.AllowanceRecords.Set(ctx, *rec); err != nil {
		s.logger.Error("更新生活費記錄失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *allowanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.AllowanceRecords.Delete(ctx, id); err != nil {
		s.logger.Error("刪除生活費記錄失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *allowanceService) CopyText(ctx context.Context, id string) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return rec.CopyText(), nil
}

// ────────────────────── 來源類型 ──────────────────────

// SourceTypes 尚未儲存過自訂清單時回傳內建類型
func (s *allowanceService) SourceTypes(ctx context.Context) ([]string, error) {
	cfg, err := s.repo.SourceTypes.Get(ctx, model.SourceTypeConfigID)
	if errors.Is(err, apperrors.ErrDocumentNotFound) || (err == nil && len(cfg.Types) == 0) {
		return append([]string(nil), model.DefaultSourceTypes...), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg.Types, nil
}

func (s *allowanceService) AddSourceType(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	types, err := s.SourceTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t == name {
			return nil, ErrSourceTypeExists
		}
	}
	return s.saveSourceTypes(ctx, append(types, name))
}

func (s *allowanceService) DeleteSourceType(ctx context.Context, name string) ([]string, error) {
	if model.IsDefaultSourceType(name) {
		return nil, ErrDefaultSourceType
	}
	types, err := s.SourceTypes(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(types))
	for _, t := range types {
		if t != name {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(types) {
		return nil, ErrSourceTypeNotFound
	}
	return s.saveSourceTypes(ctx, kept)
}

func (s *allowanceService) saveSourceTypes(ctx context.Context, types []string) ([]string, error) {
	cfg := model.SourceTypeConfig{ID: model.SourceTypeConfigID, Types: types}
	if err := s.repo.SourceTypes.Set(ctx, cfg); err != nil {
		s.logger.Error("儲存來源類型失敗", zap.Error(err))
		return nil, err
	}
	return types, nil
}

func (s *allowanceService) checkSourceType(ctx context.Context, name string) error {
	types, err := s.SourceTypes(ctx)
	if err != nil {
		return err
	}
	for _, t := range types {
		if t == name {
			return nil
		}
	}
	return ErrUnknownSourceType
}
