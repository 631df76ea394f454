package dto

// ── 生活費模組 DTO ──

// CreateAllowanceRequest 新增生活費記錄
type CreateAllowanceRequest struct {
	Date         string  `json:"date"         binding:"required,ymd"`
	Amount       float64 `json:"amount"`
	TotalBalance float64 `json:"totalBalance"`
	XiaoBalance  float64 `json:"xiaoBalance"`
	SourceType   string  `json:"sourceType"   binding:"required,max=20"`
	Note         string  `json:"note"         binding:"omitempty,max=200"`
}

// UpdateAllowanceRequest 更新生活費記錄
type UpdateAllowanceRequest struct {
	Date         *string  `json:"date"         binding:"omitempty,ymd"`
	Amount       *float64 `json:"amount"`
	TotalBalance *float64 `json:"totalBalance"`
	XiaoBalance  *float64 `json:"xiaoBalance"`
	SourceType   *string  `json:"sourceType"   binding:"omitempty,max=20"`
	Note         *string  `json:"note"         binding:"omitempty,max=200"`
}

// SourceTypeRequest 新增自訂來源類型
type SourceTypeRequest struct {
	Name string `json:"name" binding:"required,max=20"`
}

// CopyTextResponse 可貼上的文字
type CopyTextResponse struct {
	Text string `json:"text"`
}
