package dto

// ── 備份模組 DTO ──

// BackupImportResponse 還原結果
type BackupImportResponse struct {
	Courses    int `json:"courses"`
	WorkShifts int `json:"workShifts"`
	Events     int `json:"events"`
}
