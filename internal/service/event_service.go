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

// ── 重要事件模組業務錯誤 ──

var ErrEventNotFound = errors.New("事件不存在")

// EventService 重要事件業務介面
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]model.Event, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewEventService loc 決定「今天」
func NewEventService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) EventService {
	return &eventService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*model.Event, error) {
	event := model.Event{
		ID:          newID(),
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		Type:        model.EventType(req.Type),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Events.Set(ctx, event); err != nil {
		s.logger.Error("新增事件失敗", zap.Error(err))
		return nil, err
	}
	return &event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Events.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrEventNotFound)
	}
	return event, nil
}

// List upcoming 時只回傳今天（含）以後的事件
func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]model.Event, error) {
	all, err := s.repo.Events.List(ctx)
	if err != nil {
		s.logger.Error("列出事件失敗", zap.Error(err))
		return nil, err
	}
	if req.Upcoming {
		all = upcomingEvents(all, s.now().In(s.loc).Format(model.DateLayout))
	}
	sortEvents(all)
	return all, nil
}

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Type != nil {
		event.Type = model.EventType(*req.Type)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Events.Set(ctx, *event); err != nil {
		s.logger.Error("更新事件失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Events.Delete(ctx, id); err != nil {
		s.logger.Error("刪除事件失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func upcomingEvents(events []model.Event, today string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.Date >= today {
			out = append(out, e)
		}
	}
	return out
}
