package model

import (
	"net/url"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// GuideCategories 攻略分類
var GuideCategories = []string{"角色攻略", "活動攻略", "通用資源", "角色養成", "版本總覽"}

// GameGuide 遊戲攻略連結
type GameGuide struct {
	ID            string   `json:"id"`
	GameID        string   `json:"gameId"`
	Version       string   `json:"version,omitempty"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	URL           string   `json:"url"`
	ResonanceCode string   `json:"resonanceCode,omitempty"`
	Category      string   `json:"category"`
	Priority      int      `json:"priority"` // 1-5 星
	Tags          []string `json:"tags"`
	Completed     bool     `json:"completed"`
	Order         int      `json:"order"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Validate 檢查攻略欄位
func (g GameGuide) Validate() error {
	v := apperrors.NewValidationError()
	if g.ID == "" {
		v.Add("攻略 ID 不可為空")
	}
	if g.GameID == "" {
		v.Add("遊戲 ID 不可為空")
	}
	if g.Title == "" {
		v.Add("攻略標題不可為空")
	}
	if u, err := url.Parse(g.URL); err != nil || u.Scheme == "" || u.Host == "" {
		v.Add("攻略連結必須為完整網址")
	}
	if !isGuideCategory(g.Category) {
		v.Add("攻略分類無效")
	}
	if g.Priority < 1 || g.Priority > 5 {
		v.Add("重要性必須介於 1-5")
	}
	return v.OrNil()
}

func isGuideCategory(c string) bool {
	for _, cat := range GuideCategories {
		if cat == c {
			return true
		}
	}
	return false
}
