package export

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// ImportResult 薪資活頁簿匯入結果
// 單列錯誤不會中斷整份檔案，成功解析的記錄仍會回傳
type ImportResult struct {
	Records  []model.SalaryRecord `json:"records"`
	Errors   []string             `json:"errors"`
	Warnings []string             `json:"warnings"`
}

var (
	monthTitlePattern = regexp.MustCompile(`^\d{4}(_|\s+)\d{1,2}月打工$`)
	slashDatePattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	moneyCleaner      = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "")
	headerCleaner     = strings.NewReplacer("（", "(", "）", ")", "＄", "$")
)

// excelEpoch 序列號 0 對應的日期（已含 1900 閏年誤差修正）
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// instructorRateThreshold 時薪達此值即視為講師
const instructorRateThreshold = 300

// ParseSalaryWorkbook 讀取「打工日期 | 工作內容 | 工作時長 (時) | 時薪($) | 應得薪資($)」格式的活頁簿
// 第一列若不是表頭（例如月份標題），改由第二列開始
func ParseSalaryWorkbook(r io.Reader, newID func() string) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParseError("試算表", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParseError("試算表", fmt.Errorf("檔案中沒有工作表"))
	}
	// 取原始值：日期儲存格回傳序列號，不受顯示格式影響
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParseError("試算表", err)
	}

	headerIdx, columns := locateHeader(rows)
	if headerIdx < 0 {
		if len(rows) == 0 {
			return nil, apperrors.NewParseError("試算表", fmt.Errorf("檔案中沒有資料"))
		}
		return nil, apperrors.NewParseError("試算表", missingColumnsError(rows))
	}

	res := &ImportResult{Errors: []string{}, Warnings: []string{}}
	skipped := 0
	dataRows := rows[headerIdx+1:]

	for i, row := range dataRows {
		rowNumber := headerIdx + i + 2
		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		dateValue := get(colWorkDate)
		content := get(colWorkContent)
		if shouldSkipRow(dateValue, content) {
			skipped++
			continue
		}

		rec, warning, err := parseSalaryRow(dateValue, content, get(colWorkHours), get(colHourlyRate), get(colExpectedPay))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("第 %d 行：%s", rowNumber, err))
			continue
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("第 %d 行：%s", rowNumber, warning))
		}
		rec.ID = newID()
		res.Records = append(res.Records, rec)
	}

	res.Warnings = append(res.Warnings, duplicateDateWarnings(res.Records)...)
	if skipped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("已跳過 %d 行（合計行/標題行）", skipped))
	}
	if len(res.Records) == 0 && len(res.Errors) == 0 {
		res.Errors = append(res.Errors,
			fmt.Sprintf("無法解析任何有效記錄，共跳過 %d 行", skipped),
			fmt.Sprintf("總行數：%d", len(dataRows)),
		)
	}
	return res, nil
}

// locateHeader 在前兩列中尋找包含所有必要欄位的表頭
func locateHeader(rows [][]string) (int, map[string]int) {
	for idx := 0; idx < len(rows) && idx < 2; idx++ {
		columns := make(map[string]int)
		for i, cell := range rows[idx] {
			columns[headerCleaner.Replace(strings.TrimSpace(cell))] = i
		}
		if hasRequiredColumns(columns) {
			return idx, columns
		}
	}
	return -1, nil
}

var requiredColumns = []string{colWorkDate, colWorkContent, colWorkHours, colHourlyRate}

func hasRequiredColumns(columns map[string]int) bool {
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return false
		}
	}
	return true
}

func missingColumnsError(rows [][]string) error {
	first := rows[0]
	if len(rows) > 1 && len(first) < 2 {
		first = rows[1]
	}
	actual := make(map[string]bool)
	quoted := make([]string, 0, len(first))
	for _, cell := range first {
		name := headerCleaner.Replace(strings.TrimSpace(cell))
		actual[name] = true
		quoted = append(quoted, `"`+name+`"`)
	}
	var missing []string
	for _, col := range requiredColumns {
		if !actual[col] {
			missing = append(missing, col)
		}
	}
	return fmt.Errorf("缺少必要欄位：%s；實際欄位：%s",
		strings.Join(missing, "、"), strings.Join(quoted, "、"))
}

// shouldSkipRow 空白列、合計列、重複表頭與月份標題列
func shouldSkipRow(dateValue, content string) bool {
	return dateValue == "" ||
		strings.Contains(dateValue, "合計") ||
		strings.Contains(dateValue, colWorkDate) ||
		monthTitlePattern.MatchString(dateValue) ||
		content == "" ||
		strings.Contains(content, colWorkContent)
}

func parseSalaryRow(dateValue, content, hoursValue, rateValue, expectedValue string) (model.SalaryRecord, string, error) {
	date, err := parseSheetDate(dateValue)
	if err != nil {
		return model.SalaryRecord{}, "", err
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(hoursValue), 64)
	if err != nil || hours <= 0 {
		return model.SalaryRecord{}, "", fmt.Errorf("無效的工作時長：%s", hoursValue)
	}
	rate, err := parseMoney(rateValue)
	if err != nil {
		return model.SalaryRecord{}, "", fmt.Errorf("無效的時薪：%s", rateValue)
	}

	// 預設 09:00 上工，依時長推算下班時間，不另計休息
	endMinutes := 9*60 + int(math.Round(hours*60))
	if endMinutes >= 24*60 {
		return model.SalaryRecord{}, "", fmt.Errorf("工作時長超出單日範圍：%s", hoursValue)
	}

	role := model.RoleAssistant
	if rate >= instructorRateThreshold {
		role = model.RoleInstructor
	}

	rec := model.SalaryRecord{
		Date:          date,
		StartTime:     "09:00",
		EndTime:       model.MinutesToClock(endMinutes),
		HourlyRate:    rate,
		Role:          role,
		ShiftCategory: content,
	}

	var warning string
	if expectedValue != "" {
		if expected, err := parseMoney(expectedValue); err == nil {
			calculated := hours * rate
			if math.Abs(expected-calculated) > 0.01 {
				warning = fmt.Sprintf("應得薪資不符（檔案: %s, 計算: %s）", formatNumber(expected), formatNumber(calculated))
			}
		}
	}
	return rec, warning, nil
}

// parseSheetDate 支援 Excel 序列號、M/D/YY(YY) 與 YYYY-MM-DD
func parseSheetDate(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("日期欄位不得為空")
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return excelEpoch.AddDate(0, 0, int(serial)).Format(model.DateLayout), nil
	}
	if m := slashDatePattern.FindStringSubmatch(v); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if model.IsDate(date) {
			return date, nil
		}
	}
	if isoDatePattern.MatchString(v) && model.IsDate(v) {
		return v, nil
	}
	return "", fmt.Errorf("無法解析日期格式：%s", v)
}

// parseMoney 去除 $、千分位與空白
func parseMoney(v string) (float64, error) {
	n, err := strconv.ParseFloat(moneyCleaner.Replace(v), 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("無效的金額：%s", v)
	}
	return n, nil
}

func duplicateDateWarnings(records []model.SalaryRecord) []string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date]++
	}
	dates := make([]string, 0, len(counts))
	for d, n := range counts {
		if n > 1 {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	warnings := make([]string, 0, len(dates))
	for _, d := range dates {
		warnings = append(warnings, fmt.Sprintf("日期 %s 有 %d 筆記錄（可能重複）", d, counts[d]))
	}
	return warnings
}
