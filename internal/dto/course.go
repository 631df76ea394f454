package dto

// ── 課程模組 DTO ──

// CreateCourseRequest 新增課程
type CreateCourseRequest struct {
	Name      string `json:"name"      binding:"required,max=100"`
	Day       int    `json:"day"       binding:"required,min=1,max=7"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime"   binding:"required,hhmm"`
	Location  string `json:"location"  binding:"omitempty,max=100"`
	Color     string `json:"color"     binding:"omitempty,hexcolor"`
}

// UpdateCourseRequest 更新課程，未帶的欄位保持不變
type UpdateCourseRequest struct {
	Name      *string `json:"name"      binding:"omitempty,max=100"`
	Day       *int    `json:"day"       binding:"omitempty,min=1,max=7"`
	StartTime *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime   *string `json:"endTime"   binding:"omitempty,hhmm"`
	Location  *string `json:"location"  binding:"omitempty,max=100"`
	Color     *string `json:"color"     binding:"omitempty,hexcolor"`
}

// ImportICSRequest 由網址匯入課表；上傳檔案時不帶此參數
type ImportICSRequest struct {
	URL string `json:"url" form:"url" binding:"omitempty,url"`
}

// ImportCoursesResponse 匯入課表結果
type ImportCoursesResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
