package model

import (
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// NoteType 筆記類型
type NoteType string

const (
	NoteTypeNote     NoteType = "note"
	NoteTypeHomework NoteType = "homework"
	NoteTypeExam     NoteType = "exam"
)

// CourseNote 課程筆記、作業或考試
type CourseNote struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"courseId"`
	CourseName string   `json:"courseName,omitempty"`
	Type       NoteType `json:"type"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	DueDate    string   `json:"dueDate,omitempty"` // ISO 8601
	Completed  bool     `json:"completed"`
	Priority   string   `json:"priority,omitempty"` // low | medium | high
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// Validate 檢查筆記欄位
func (n CourseNote) Validate() error {
	v := apperrors.NewValidationError()
	if n.ID == "" {
		v.Add("筆記 ID 不可為空")
	}
	if n.CourseID == "" {
		v.Add("課程 ID 不可為空")
	}
	if n.Title == "" {
		v.Add("筆記標題不可為空")
	}
	switch n.Type {
	case NoteTypeNote, NoteTypeHomework, NoteTypeExam:
	default:
		v.Add("筆記類型必須為 note、homework 或 exam")
	}
	switch n.Priority {
	case "", "low", "medium", "high":
	default:
		v.Add("優先級必須為 low、medium 或 high")
	}
	if n.DueDate != "" && (len(n.DueDate) < 10 || !IsDate(n.DueDate[:10])) {
		v.Add("截止日期格式錯誤")
	}
	return v.OrNil()
}
