package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// CSVContentType CSV 回應的 MIME
const CSVContentType = "text/csv; charset=utf-8"

// 匯出檔名
const (
	FilenameCoursesCSV = "courses.csv"
	FilenameShiftsCSV  = "work-shifts.csv"
	FilenameSalaryCSV  = "salary.csv"
)

// utf8BOM 讓試算表軟體自動辨識 UTF-8
const utf8BOM = "\ufeff"

// Table 有序欄位加上逐列資料
type Table struct {
	Headers []string
	Rows    [][]string
}

// RenderCSV 每個欄位都加上雙引號，列之間以 LF 分隔，結尾不留空行
func RenderCSV(t Table) []byte {
	var b bytes.Buffer
	b.WriteString(utf8BOM)
	writeCSVLine(&b, t.Headers)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		writeCSVLine(&b, row)
	}
	return b.Bytes()
}

func writeCSVLine(b *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

var (
	courseHeaders = []string{"課程名稱", "星期", "開始時間", "結束時間", "地點"}
	shiftHeaders  = []string{"日期", "開始時間", "結束時間", "備註"}
	salaryHeaders = []string{"序號", "日期", "開始時間", "結束時間", "休息時間(分)", "工作時數", "時薪", "薪資"}
)

var dayNames = [8]string{"", "一", "二", "三", "四", "五", "六", "日"}

// DayLabel 1 → 星期一 … 7 → 星期日
func DayLabel(day int) string {
	if day < 1 || day > 7 {
		return ""
	}
	return "星期" + dayNames[day]
}

// CoursesCSV 課表；任一筆驗證失敗即整批失敗
func CoursesCSV(courses []model.Course) ([]byte, error) {
	rows, err := courseRows(courses)
	if err != nil {
		return nil, err
	}
	return RenderCSV(Table{Headers: courseHeaders, Rows: rows}), nil
}

// WorkShiftsCSV 打工班表
func WorkShiftsCSV(shifts []model.WorkShift) ([]byte, error) {
	rows := make([][]string, 0, len(shifts))
	for i, s := range shifts {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆班次: %w", i+1, err)
		}
		rows = append(rows, []string{s.Date, s.StartTime, s.EndTime, s.Note})
	}
	return RenderCSV(Table{Headers: shiftHeaders, Rows: rows}), nil
}

// SalaryCSV 薪資明細
func SalaryCSV(records []model.SalaryRecord) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆薪資記錄: %w", i+1, err)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Date,
			r.StartTime,
			r.EndTime,
			strconv.Itoa(r.BreakMinutes),
			strconv.FormatFloat(r.WorkHours(), 'f', 2, 64),
			formatNumber(r.HourlyRate),
			formatNumber(r.Pay()),
		})
	}
	return RenderCSV(Table{Headers: salaryHeaders, Rows: rows}), nil
}

func courseRows(courses []model.Course) ([][]string, error) {
	rows := make([][]string, 0, len(courses))
	for i, c := range courses {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆課程: %w", i+1, err)
		}
		rows = append(rows, []string{c.Name, DayLabel(c.Day), c.StartTime, c.EndTime, c.Location})
	}
	return rows, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
