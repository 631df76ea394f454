package export

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// XLSXContentType 活頁簿回應的 MIME
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 匯出檔名
const (
	FilenameCoursesXLSX = "courses.xlsx"
	FilenameShiftsXLSX  = "work-shifts.xlsx"
)

// Row 欄位名稱 → 值；數字與字串依原型別寫入
type Row map[string]interface{}

// Sheet 單一工作表
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// RenderWorkbook 將工作表寫成 xlsx
func RenderWorkbook(s Sheet) ([]byte, error) {
	if len(s.Headers) == 0 {
		return nil, fmt.Errorf("工作表至少需要一個欄位")
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(s.Name)
	if err != nil {
		return nil, fmt.Errorf("建立工作表失敗: %w", err)
	}
	f.SetActiveSheet(idx)
	if s.Name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("建立樣式失敗: %w", err)
	}

	header := make([]interface{}, len(s.Headers))
	widths := make([]int, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
		widths[i] = displayWidth(h)
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return nil, fmt.Errorf("寫入表頭失敗: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(s.Headers))
	if err := f.SetCellStyle(s.Name, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("設定表頭樣式失敗: %w", err)
	}

	for r, row := range s.Rows {
		values := make([]interface{}, len(s.Headers))
		for i, h := range s.Headers {
			v, ok := row[h]
			if !ok {
				v = ""
			}
			values[i] = v
			if w := displayWidth(fmt.Sprint(v)); w > widths[i] {
				widths[i] = w
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return nil, fmt.Errorf("寫入第 %d 列失敗: %w", r+2, err)
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(s.Name, col, col, float64(w+2)); err != nil {
			return nil, fmt.Errorf("設定欄寬失敗: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("輸出活頁簿失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// displayWidth 全形字元以兩格計算
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if utf8.RuneLen(r) > 1 {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// ── 各資料的活頁簿 ──

// CoursesWorkbook 課表
func CoursesWorkbook(courses []model.Course) ([]byte, error) {
	rows := make([]Row, 0, len(courses))
	for i, c := range courses {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆課程: %w", i+1, err)
		}
		rows = append(rows, Row{
			"課程名稱": c.Name,
			"星期":   DayLabel(c.Day),
			"開始時間": c.StartTime,
			"結束時間": c.EndTime,
			"地點":   c.Location,
		})
	}
	return RenderWorkbook(Sheet{Name: "課表", Headers: courseHeaders, Rows: rows})
}

// WorkShiftsWorkbook 打工班表
func WorkShiftsWorkbook(shifts []model.WorkShift) ([]byte, error) {
	rows := make([]Row, 0, len(shifts))
	for i, s := range shifts {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆班次: %w", i+1, err)
		}
		rows = append(rows, Row{
			"日期":   s.Date,
			"開始時間": s.StartTime,
			"結束時間": s.EndTime,
			"備註":   s.Note,
		})
	}
	return RenderWorkbook(Sheet{Name: "打工班表", Headers: shiftHeaders, Rows: rows})
}

// SalaryWorkbook 薪資明細，最後一列為總計
func SalaryWorkbook(records []model.SalaryRecord) ([]byte, error) {
	rows := make([]Row, 0, len(records)+1)
	var total float64
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆薪資記錄: %w", i+1, err)
		}
		pay := r.Pay()
		total += pay
		rows = append(rows, Row{
			"序號":      i + 1,
			"日期":      r.Date,
			"開始時間":    r.StartTime,
			"結束時間":    r.EndTime,
			"休息時間(分)": r.BreakMinutes,
			"工作時數":    round2(r.WorkHours()),
			"時薪":      r.HourlyRate,
			"薪資":      pay,
		})
	}
	rows = append(rows, Row{"時薪": "總計", "薪資": total})

	return RenderWorkbook(Sheet{Name: "薪資明細", Headers: salaryHeaders, Rows: rows})
}

// 與 ParseSalaryWorkbook 共用的欄位
const (
	colWorkDate    = "打工日期"
	colWorkContent = "工作內容"
	colWorkHours   = "工作時長 (時)"
	colHourlyRate  = "時薪($)"
	colExpectedPay = "應得薪資($)"
)

var statementHeaders = []string{colWorkDate, colWorkContent, colWorkHours, colHourlyRate, colExpectedPay}

// SalaryStatementWorkbook 打工明細表，格式可再由 ParseSalaryWorkbook 匯入
func SalaryStatementWorkbook(records []model.SalaryRecord) ([]byte, error) {
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆薪資記錄: %w", i+1, err)
		}
		rows = append(rows, Row{
			colWorkDate:    r.Date,
			colWorkContent: r.ShiftCategory,
			colWorkHours:   round2(r.WorkHours()),
			colHourlyRate:  r.HourlyRate,
			colExpectedPay: r.Pay(),
		})
	}
	return RenderWorkbook(Sheet{Name: "打工明細", Headers: statementHeaders, Rows: rows})
}

// SalaryWorkbookFilename 薪資計算_YYYY-MM-DD.xlsx
func SalaryWorkbookFilename(now time.Time) string {
	return "薪資計算_" + now.Format("2006-01-02") + ".xlsx"
}

// SalaryStatementFilename 打工明細_YYYY-MM-DD.xlsx
func SalaryStatementFilename(now time.Time) string {
	return "打工明細_" + now.Format("2006-01-02") + ".xlsx"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
