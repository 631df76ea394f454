package repository

import (
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// Repository 所有集合的聚合入口
type Repository struct {
	Courses          *Collection[model.Course]
	WorkShifts       *Collection[model.WorkShift]
	Events           *Collection[model.Event]
	SalaryRecords    *Collection[model.SalaryRecord]
	AllowanceRecords *Collection[model.AllowanceRecord]
	SourceTypes      *Collection[model.SourceTypeConfig]
	GameGuides       *Collection[model.GameGuide]
	CourseNotes      *Collection[model.CourseNote]

	Hub *Broadcaster
}

// NewRepository store 應為已套上權限守門的儲存
func NewRepository(store DocumentStore, hub *Broadcaster, logger *zap.Logger) *Repository {
	return &Repository{
		Courses:          NewCollection(CollectionCourses, store, hub, func(v model.Course) string { return v.ID }, logger),
		WorkShifts:       NewCollection(CollectionWorkShifts, store, hub, func(v model.WorkShift) string { return v.ID }, logger),
		Events:           NewCollection(CollectionEvents, store, hub, func(v model.Event) string { return v.ID }, logger),
		SalaryRecords:    NewCollection(CollectionSalaryRecords, store, hub, func(v model.SalaryRecord) string { return v.ID }, logger),
		AllowanceRecords: NewCollection(CollectionAllowanceRecords, store, hub, func(v model.AllowanceRecord) string { return v.ID }, logger),
		SourceTypes:      NewCollection(CollectionAllowanceSourceTypes, store, hub, func(v model.SourceTypeConfig) string { return v.ID }, logger),
		GameGuides:       NewCollection(CollectionGameGuides, store, hub, func(v model.GameGuide) string { return v.ID }, logger),
		CourseNotes:      NewCollection(CollectionCourseNotes, store, hub, func(v model.CourseNote) string { return v.ID }, logger),
		Hub:              hub,
	}
}

// NewMemoryRepository 以記憶體儲存建立完整 Repository，不套權限守門
func NewMemoryRepository(logger *zap.Logger) *Repository {
	store := NewMemoryStore()
	hub := NewBroadcaster(store, nil, "", logger, nil)
	return NewRepository(store, hub, logger)
}
