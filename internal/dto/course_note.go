package dto

// ── 課程筆記模組 DTO ──

// CreateCourseNoteRequest 新增筆記
type CreateCourseNoteRequest struct {
	CourseID   string   `json:"courseId"   binding:"required"`
	CourseName string   `json:"courseName" binding:"omitempty,max=100"`
	Type       string   `json:"type"       binding:"required,oneof=note homework exam"`
	Title      string   `json:"title"      binding:"required,max=100"`
	Content    string   `json:"content"    binding:"omitempty,max=5000"`
	DueDate    string   `json:"dueDate"`
	Priority   string   `json:"priority"   binding:"omitempty,oneof=low medium high"`
	Tags       []string `json:"tags"       binding:"omitempty,max=20,dive,max=30"`
}

// UpdateCourseNoteRequest 更新筆記
type UpdateCourseNoteRequest struct {
	CourseID   *string   `json:"courseId"`
	CourseName *string   `json:"courseName" binding:"omitempty,max=100"`
	Type       *string   `json:"type"       binding:"omitempty,oneof=note homework exam"`
	Title      *string   `json:"title"      binding:"omitempty,max=100"`
	Content    *string   `json:"content"    binding:"omitempty,max=5000"`
	DueDate    *string   `json:"dueDate"`
	Priority   *string   `json:"priority"   binding:"omitempty,oneof=low medium high"`
	Tags       *[]string `json:"tags"`
	Completed  *bool     `json:"completed"`
}

// CourseNoteListRequest 筆記篩選
type CourseNoteListRequest struct {
	CourseID string `form:"courseId"`
	Type     string `form:"type" binding:"omitempty,oneof=note homework exam"`
}
