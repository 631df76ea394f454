package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 遊戲攻略模組業務錯誤 ──

var ErrGameGuideNotFound = errors.New("攻略不存在")

// GameGuideService 遊戲攻略業務介面
type GameGuideService interface {
	Create(ctx context.Context, req *dto.CreateGameGuideRequest) (*model.GameGuide, error)
	Get(ctx context.Context, id string) (*model.GameGuide, error)
	List(ctx context.Context, req *dto.GameGuideListRequest) ([]model.GameGuide, error)
	Update(ctx context.Context, id string, req *dto.UpdateGameGuideRequest) (*model.GameGuide, error)
	Delete(ctx context.Context, id string) error
	ToggleCompleted(ctx context.Context, id string) (*model.GameGuide, error)
	Progress(ctx context.Context, req *dto.GameGuideListRequest) (*dto.GuideProgressResponse, error)
	Versions(ctx context.Context, gameID string) ([]string, error)
	GameIDs(ctx context.Context) ([]string, error)
}

type gameGuideService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewGameGuideService 建立 GameGuideService
func NewGameGuideService(repo *repository.Repository, logger *zap.Logger) GameGuideService {
	return &gameGuideService{repo: repo, now: time.Now, logger: logger}
}

func (s *gameGuideService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// ────────────────────── CRUD ──────────────────────

func (s *gameGuideService) Create(ctx context.Context, req *dto.CreateGameGuideRequest) (*model.GameGuide, error) {
	ts := s.timestamp()
	guide := model.GameGuide{
		ID:            newID(),
		GameID:        req.GameID,
		Version:       req.Version,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		URL:           req.URL,
		ResonanceCode: req.ResonanceCode,
		Category:      req.Category,
		Priority:      req.Priority,
		Tags:          cleanTags(req.Tags),
		Order:         req.Order,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if err := guide.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.GameGuides.Set(ctx, guide); err != nil {
		s.logger.Error("新增攻略失敗", zap.Error(err))
		return nil, err
	}
	return &guide, nil
}

func (s *gameGuideService) Get(ctx context.Context, id string) (*model.GameGuide, error) {
	guide, err := s.repo.GameGuides.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrGameGuideNotFound)
	}
	return guide, nil
}

// List 依 order 排序，相同時依建立時間
func (s *gameGuideService) List(ctx context.Context, req *dto.GameGuideListRequest) ([]model.GameGuide, error) {
	all, err := s.repo.GameGuides.List(ctx)
	if err != nil {
		s.logger.Error("列出攻略失敗", zap.Error(err))
		return nil, err
	}

	out := filterGuides(all, req.GameID, req.Version)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func (s *gameGuideService) Update(ctx context.Context, id string, req *dto.UpdateGameGuideRequest) (*model.GameGuide, error) {
	guide, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GameID != nil {
		guide.GameID = *req.GameID
	}
	if req.Version != nil {
		guide.Version = *req.Version
	}
	if req.Title != nil {
		guide.Title = *req.Title
	}
	if req.Subtitle != nil {
		guide.Subtitle = *req.Subtitle
	}
	if req.URL != nil {
		guide.URL = *req.URL
	}
	if req.ResonanceCode != nil {
		guide.ResonanceCode = *req.ResonanceCode
	}
	if req.Category != nil {
		guide.Category = *req.Category
	}
	if req.Priority != nil {
		guide.Priority = *req.Priority
	}
	if req.Tags != nil {
		guide.Tags = cleanTags(*req.Tags)
	}
	if req.Order != nil {
		guide.Order = *req.Order
	}
	if req.Completed != nil {
		guide.Completed = *req.Completed
	}
	guide.UpdatedAt = s.timestamp()
	if err := guide.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.GameGuides.Set(ctx, *guide); err != nil {
		s.logger.Error("更新攻略失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return guide, nil
}

func (s *gameGuideService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.GameGuides.Delete(ctx, id); err != nil {
		s.logger.Error("刪除攻略失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ToggleCompleted 只更新完成狀態
func (s *gameGuideService) ToggleCompleted(ctx context.Context, id string) (*model.GameGuide, error) {
	guide, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guide.Completed = !guide.Completed
	guide.UpdatedAt = s.timestamp()

	patch := map[string]interface{}{"completed": guide.Completed}
	if err := s.repo.GameGuides.Update(ctx, id, patch); err != nil {
		return nil, mapNotFound(err, ErrGameGuideNotFound)
	}
	return guide, nil
}

// ────────────────────── 統計 ──────────────────────

// Progress 完成百分比四捨五入為整數，沒有攻略時為 0
func (s *gameGuideService) Progress(ctx context.Context, req *dto.GameGuideListRequest) (*dto.GuideProgressResponse, error) {
	all, err := s.repo.GameGuides.List(ctx)
	if err != nil {
		return nil, err
	}
	guides := filterGuides(all, req.GameID, req.Version)

	out := &dto.GuideProgressResponse{Total: len(guides)}
	for _, g := range guides {
		if g.Completed {
			out.Completed++
		}
	}
	if out.Total > 0 {
		out.Percentage = int(math.Round(float64(out.Completed) / float64(out.Total) * 100))
	}
	return out, nil
}

// Versions 去重後由新到舊；皆可轉為數字時依數值，否則依字串
func (s *gameGuideService) Versions(ctx context.Context, gameID string) ([]string, error) {
	all, err := s.repo.GameGuides.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	versions := []string{}
	for _, g := range all {
		if g.GameID != gameID || g.Version == "" || seen[g.Version] {
			continue
		}
		seen[g.Version] = true
		versions = append(versions, g.Version)
	}
	sortVersionsDesc(versions)
	return versions, nil
}

// GameIDs 出現過的遊戲 ID，依首次出現順序
func (s *gameGuideService) GameIDs(ctx context.Context) ([]string, error) {
	all, err := s.repo.GameGuides.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	ids := []string{}
	for _, g := range all {
		if !seen[g.GameID] {
			seen[g.GameID] = true
			ids = append(ids, g.GameID)
		}
	}
	return ids, nil
}

func filterGuides(all []model.GameGuide, gameID, version string) []model.GameGuide {
	out := make([]model.GameGuide, 0, len(all))
	for _, g := range all {
		if gameID != "" && g.GameID != gameID {
			continue
		}
		if version != "" && g.Version != version {
			continue
		}
		out = append(out, g)
	}
	return out
}

func sortVersionsDesc(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, errA := strconv.ParseFloat(versions[i], 64)
		b, errB := strconv.ParseFloat(versions[j], 64)
		if errA == nil && errB == nil {
			return a > b
		}
		return versions[i] > versions[j]
	})
}
