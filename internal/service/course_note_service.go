package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 課程筆記模組業務錯誤 ──

var ErrCourseNoteNotFound = errors.New("筆記不存在")

// upcomingWindow 近期作業/考試的範圍
const upcomingWindow = 7 * 24 * time.Hour

// CourseNoteService 課程筆記業務介面
type CourseNoteService interface {
	Create(ctx context.Context, req *dto.CreateCourseNoteRequest) (*model.CourseNote, error)
	Get(ctx context.Context, id string) (*model.CourseNote, error)
	List(ctx context.Context, req *dto.CourseNoteListRequest) ([]model.CourseNote, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseNoteRequest) (*model.CourseNote, error)
	Delete(ctx context.Context, id string) error
	ToggleCompleted(ctx context.Context, id string) (*model.CourseNote, error)
	Upcoming(ctx context.Context) ([]model.CourseNote, error)
}

type courseNoteService struct {
	repo   *repository.Repository
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewCourseNoteService 建立 CourseNoteService
func NewCourseNoteService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CourseNoteService {
	if loc == nil {
		loc = time.Local
	}
	return &courseNoteService{repo: repo, now: time.Now, loc: loc, logger: logger}
}

func (s *courseNoteService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// ────────────────────── CRUD ──────────────────────

func (s *courseNoteService) Create(ctx context.Context, req *dto.CreateCourseNoteRequest) (*model.CourseNote, error) {
	ts := s.timestamp()
	note := model.CourseNote{
		ID:         newID(),
		CourseID:   req.CourseID,
		CourseName: req.CourseName,
		Type:       model.NoteType(req.Type),
		Title:      req.Title,
		Content:    req.Content,
		DueDate:    req.DueDate,
		Priority:   req.Priority,
		Tags:       cleanTags(req.Tags),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CourseNotes.Set(ctx, note); err != nil {
		s.logger.Error("新增筆記失敗", zap.Error(err))
		return nil, err
	}
	return &note, nil
}

func (s *courseNoteService) Get(ctx context.Context, id string) (*model.CourseNote, error) {
	note, err := s.repo.CourseNotes.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCourseNoteNotFound)
	}
	return note, nil
}

// List 新建立的在前
func (s *courseNoteService) List(ctx context.Context, req *dto.CourseNoteListRequest) ([]model.CourseNote, error) {
	all, err := s.repo.CourseNotes.List(ctx)
	if err != nil {
		s.logger.Error("列出筆記失敗", zap.Error(err))
		return nil, err
	}

	out := make([]model.CourseNote, 0, len(all))
	for _, n := range all {
		if req.CourseID != "" && n.CourseID != req.CourseID {
			continue
		}
		if req.Type != "" && string(n.Type) != req.Type {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *courseNoteService) Update(ctx context.Context, id string, req *dto.UpdateCourseNoteRequest) (*model.CourseNote, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		note.CourseID = *req.CourseID
	}
	if req.CourseName != nil {
		note.CourseName = *req.CourseName
	}
	if req.Type != nil {
		note.Type = model.NoteType(*req.Type)
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.DueDate != nil {
		note.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		note.Priority = *req.Priority
	}
	if req.Tags != nil {
		note.Tags = cleanTags(*req.Tags)
	}
	if req.Completed != nil {
		note.Completed = *req.Completed
	}
	note.UpdatedAt = s.timestamp()
	if err := note.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CourseNotes.Set(ctx, *note); err != nil {
		s.logger.Error("更新筆記失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return note, nil
}

func (s *courseNoteService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.CourseNotes.Delete(ctx, id); err != nil {
		s.logger.Error("刪除筆記失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *courseNoteService) ToggleCompleted(ctx context.Context, id string) (*model.CourseNote, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Completed = !note.Completed

	patch := map[string]interface{}{"completed": note.Completed}
	if err := s.repo.CourseNotes.Update(ctx, id, patch); err != nil {
		return nil, mapNotFound(err, ErrCourseNoteNotFound)
	}
	return note, nil
}

// ────────────────────── 近期 ──────────────────────

// Upcoming 未完成且截止日在七天內的作業與考試，依截止日排序
func (s *courseNoteService) Upcoming(ctx context.Context) ([]model.CourseNote, error) {
	all, err := s.repo.CourseNotes.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	limit := now.Add(upcomingWindow)

	type dated struct {
		note model.CourseNote
		due  time.Time
	}
	var picked []dated
	for _, n := range all {
		if n.Type == model.NoteTypeNote || n.Completed || n.DueDate == "" {
			continue
		}
		due, ok := parseDueDate(n.DueDate, s.loc)
		if !ok || due.Before(now) || due.After(limit) {
			continue
		}
		picked = append(picked, dated{note: n, due: due})
	}

	sort.SliceStable(picked, func(i, j int) bool { return picked[i].due.Before(picked[j].due) })
	out := make([]model.CourseNote, 0, len(picked))
	for _, p := range picked {
		out = append(out, p.note)
	}
	return out, nil
}

// parseDueDate 接受完整 RFC 3339、不含時區的日期時間或單純日期
// 單純日期視為當天結束
func parseDueDate(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(model.DateLayout, s, loc); err == nil {
		return t.Add(24*time.Hour - time.Second), true
	}
	return time.Time{}, false
}
