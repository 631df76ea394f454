package dto

// ── 重要事件模組 DTO ──

// CreateEventRequest 新增事件
type CreateEventRequest struct {
	Title       string `json:"title"       binding:"required,max=100"`
	Date        string `json:"date"        binding:"required,ymd"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Type        string `json:"type"        binding:"required,oneof=exam deadline personal holiday"`
}

// UpdateEventRequest 更新事件
type UpdateEventRequest struct {
	Title       *string `json:"title"       binding:"omitempty,max=100"`
	Date        *string `json:"date"        binding:"omitempty,ymd"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Type        *string `json:"type"        binding:"omitempty,oneof=exam deadline personal holiday"`
}

// EventListRequest 事件列表查詢
type EventListRequest struct {
	Upcoming bool `form:"upcoming"`
}
