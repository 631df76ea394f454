package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 課程模組業務錯誤 ──

var (
	ErrCourseNotFound = errors.New("課程不存在")
	ErrICSFetchFailed = errors.New("無法下載 ICS 檔案")
)

// CourseService 課表業務介面
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id string) error
	ImportICS(ctx context.Context, r io.Reader) (*dto.ImportCoursesResponse, error)
	ImportICSFromURL(ctx context.Context, url string) (*dto.ImportCoursesResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewCourseService loc 用於解讀 ICS 中帶時區的時間
func NewCourseService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	course := model.Course{
		ID:        newID(),
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Color:     req.Color,
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Courses.Set(ctx, course); err != nil {
		s.logger.Error("新增課程失敗", zap.Error(err))
		return nil, err
	}
	return &course, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *courseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Courses.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.Courses.List(ctx)
	if err != nil {
		s.logger.Error("列出課程失敗", zap.Error(err))
		return nil, err
	}
	sortCourses(courses)
	return courses, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Day != nil {
		course.Day = *req.Day
	}
	if req.StartTime != nil {
		course.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		course.EndTime = *req.EndTime
	}
	if req.Location != nil {
		course.Location = *req.Location
	}
	if req.Color != nil {
		course.Color = *req.Color
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Courses.Set(ctx, *course); err != nil {
		s.logger.Error("更新課程失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Courses.Delete(ctx, id); err != nil {
		s.logger.Error("刪除課程失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ImportICS ──────────────────────

// ImportICS 已存在同名同時段的課程會被略過
func (s *courseService) ImportICS(ctx context.Context, r io.Reader) (*dto.ImportCoursesResponse, error) {
	parsed, err := calendar.ParseCourses(r, s.loc)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[courseKey(c)] = true
	}

	result := &dto.ImportCoursesResponse{}
	toSave := make([]model.Course, 0, len(parsed))
	for _, c := range parsed {
		if seen[courseKey(c)] {
			result.Skipped++
			continue
		}
		seen[courseKey(c)] = true
		c.ID = newID()
		if err := c.Validate(); err != nil {
			s.logger.Debug("略過不合法的 ICS 課程", zap.String("name", c.Name), zap.Error(err))
			result.Skipped++
			continue
		}
		toSave = append(toSave, c)
	}

	if len(toSave) > 0 {
		if err := s.repo.Courses.SetMany(ctx, toSave); err != nil {
			s.logger.Error("匯入課程失敗", zap.Error(err))
			return nil, err
		}
	}
	result.Imported = len(toSave)

	s.logger.Info("ICS 課表匯入完成",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *courseService) ImportICSFromURL(ctx context.Context, url string) (*dto.ImportCoursesResponse, error) {
	body, err := calendar.FetchICSContent(ctx, url)
	if err != nil {
		s.logger.Warn("下載 ICS 失敗", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrICSFetchFailed, err)
	}
	defer body.Close()
	return s.ImportICS(ctx, body)
}

func courseKey(c model.Course) string {
	return fmt.Sprintf("%s|%d|%s|%s", c.Name, c.Day, c.StartTime, c.EndTime)
}
