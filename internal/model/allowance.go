package model

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// SourceTypeAllowance 生活費匯款，複製文字會額外列出孔呆餘額
const SourceTypeAllowance = "生活費匯款"

// DefaultSourceTypes 內建來源類型，不可刪除
var DefaultSourceTypes = []string{
	"打工收入",
	SourceTypeAllowance,
	"獎學金",
	"退費",
	"其他",
}

// IsDefaultSourceType 是否為內建來源類型
func IsDefaultSourceType(name string) bool {
	for _, t := range DefaultSourceTypes {
		if t == name {
			return true
		}
	}
	return false
}

// SourceTypeConfigID 來源類型清單固定存放的文件鍵
const SourceTypeConfigID = "config"

// SourceTypeConfig 完整的來源類型清單（內建 + 自訂）
type SourceTypeConfig struct {
	ID    string   `json:"id"`
	Types []string `json:"types"`
}

// AllowanceRecord 生活費匯入記錄
type AllowanceRecord struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	TotalBalance float64 `json:"totalBalance"` // 帳簿餘額
	XiaoBalance  float64 `json:"xiaoBalance"`  // 小呆餘額
	SourceType   string  `json:"sourceType"`
	Note         string  `json:"note,omitempty"`
	Timestamp    int64   `json:"timestamp"` // 建立時間（毫秒），排序用
}

// KongBalance 孔呆餘額 = 帳簿餘額 - 小呆餘額
func (r AllowanceRecord) KongBalance() float64 {
	return r.TotalBalance - r.XiaoBalance
}

// Validate 檢查餘額約束
func (r AllowanceRecord) Validate() error {
	v := apperrors.NewValidationError()
	if r.ID == "" {
		v.Add("記錄 ID 不可為空")
	}
	if !IsDate(r.Date) {
		v.Add("日期格式必須為 YYYY-MM-DD")
	}
	if r.SourceType == "" {
		v.Add("來源類型不可為空")
	}
	if r.TotalBalance < 0 {
		v.Add("帳簿餘額不可為負數")
	}
	if r.XiaoBalance < 0 {
		v.Add("小呆餘額不可為負數")
	}
	if r.XiaoBalance > r.TotalBalance {
		v.Add("小呆餘額不可大於帳簿餘額")
	}
	return v.OrNil()
}

// CopyText 產生可貼到記帳本的文字
func (r AllowanceRecord) CopyText() string {
	lines := []string{
		"匯入日期: " + FormatDateForCopy(r.Date),
		"匯入金額: " + formatAmount(r.Amount),
	}
	if r.SourceType == SourceTypeAllowance {
		lines = append(lines,
			"帳簿餘額: "+formatAmount(r.TotalBalance),
			"孔呆餘額: "+formatAmount(r.KongBalance()),
		)
	} else {
		lines = append(lines,
			"來源: "+r.SourceType,
			"帳簿餘額: "+formatAmount(r.TotalBalance),
		)
	}
	lines = append(lines, "小呆餘額: "+formatAmount(r.XiaoBalance))
	return strings.Join(lines, "\n")
}

// FormatDateForCopy 2026-02-07 → 2026/2/7
func FormatDateForCopy(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	month, err1 := strconv.Atoi(parts[1])
	day, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return date
	}
	return fmt.Sprintf("%s/%d/%d", parts[0], month, day)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
