package calendar

import (
	"fmt"
	"time"
)

// DaysInMonth 指定月份的天數（含閏年）
func DaysInMonth(year int, month time.Month) int {
	// 下個月的第 0 天即本月最後一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOffset 以週一為第一欄時，1 號之前需要的空白格數，範圍 [0,6]
func FirstWeekdayOffset(year int, month time.Month) int {
	wd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// FormatDate 補零的 YYYY-MM-DD
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDate 拆解 YYYY-MM-DD
func ParseDate(s string) (int, time.Month, int, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("日期格式錯誤: %q", s)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

// Cell 月曆中的一格；Day 為 0 表示前置空白格
type Cell struct {
	Day     int    `json:"day"`
	Date    string `json:"date,omitempty"`
	Weekday int    `json:"weekday,omitempty"` // 1-7，週一=1
}

// MonthGrid 週一起始的月曆格
type MonthGrid struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Offset int    `json:"offset"`
	Days   int    `json:"days"`
	Cells  []Cell `json:"cells"`
}

// BuildMonthGrid 產生前置空白格加上每日一格
func BuildMonthGrid(year int, month time.Month) MonthGrid {
	offset := FirstWeekdayOffset(year, month)
	days := DaysInMonth(year, month)

	cells := make([]Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{
			Day:     d,
			Date:    FormatDate(year, month, d),
			Weekday: (offset+d-1)%7 + 1,
		})
	}

	return MonthGrid{
		Year:   year,
		Month:  int(month),
		Offset: offset,
		Days:   days,
		Cells:  cells,
	}
}

// ISOWeekday time.Weekday 轉為 1-7（週一=1 … 週日=7）
func ISOWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
