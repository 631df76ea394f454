package dto

// ── 遊戲攻略模組 DTO ──

// CreateGameGuideRequest 新增攻略
type CreateGameGuideRequest struct {
	GameID        string   `json:"gameId"        binding:"required,max=50"`
	Version       string   `json:"version"       binding:"omitempty,max=20"`
	Title         string   `json:"title"         binding:"required,max=100"`
	Subtitle      string   `json:"subtitle"      binding:"omitempty,max=200"`
	URL           string   `json:"url"           binding:"required,url"`
	ResonanceCode string   `json:"resonanceCode" binding:"omitempty,max=50"`
	Category      string   `json:"category"      binding:"required"`
	Priority      int      `json:"priority"      binding:"required,min=1,max=5"`
	Tags          []string `json:"tags"          binding:"omitempty,max=20,dive,max=30"`
	Order         int      `json:"order"`
}

// UpdateGameGuideRequest 更新攻略
type UpdateGameGuideRequest struct {
	GameID        *string   `json:"gameId"        binding:"omitempty,max=50"`
	Version       *string   `json:"version"       binding:"omitempty,max=20"`
	Title         *string   `json:"title"         binding:"omitempty,max=100"`
	Subtitle      *string   `json:"subtitle"      binding:"omitempty,max=200"`
	URL           *string   `json:"url"           binding:"omitempty,url"`
	ResonanceCode *string   `json:"resonanceCode" binding:"omitempty,max=50"`
	Category      *string   `json:"category"`
	Priority      *int      `json:"priority"      binding:"omitempty,min=1,max=5"`
	Tags          *[]string `json:"tags"`
	Order         *int      `json:"order"`
	Completed     *bool     `json:"completed"`
}

// GameGuideListRequest 攻略篩選
type GameGuideListRequest struct {
	GameID  string `form:"gameId"`
	Version string `form:"version"`
}

// GuideProgressResponse 完成進度
type GuideProgressResponse struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}
