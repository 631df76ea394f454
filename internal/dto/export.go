package dto

// ── 匯出模組 DTO ──

// ExportRequest 匯出篩選；Month 只作用於班次與薪資
type ExportRequest struct {
	Month string `form:"month" binding:"omitempty,ym"`
}
