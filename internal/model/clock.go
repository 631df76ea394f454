package model

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout 文件中日期欄位的格式
const DateLayout = "2006-01-02"

// clockPattern 24 小時制且補零的 HH:MM
var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsClock 檢查是否為補零的 HH:MM
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockMinutes 將 HH:MM 轉為當日分鐘數
func ClockMinutes(s string) (int, error) {
	if !IsClock(s) {
		return 0, fmt.Errorf("時間格式錯誤: %q", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

// MinutesToClock 將分鐘數轉回 HH:MM
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsDate 檢查是否為 YYYY-MM-DD 且為實際存在的日期
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
