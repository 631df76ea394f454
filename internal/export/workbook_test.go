package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BrianLien09/schedule-app/internal/model"
)

func sampleSalaryRecords() []model.SalaryRecord {
	return []model.SalaryRecord{
		{ID: "s1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", HourlyRate: 200, BreakMinutes: 60, Role: model.RoleAssistant, ShiftCategory: "秋季班"},
		{ID: "s2", Date: "2026-01-17", StartTime: "09:00", EndTime: "13:00", HourlyRate: 350, BreakMinutes: 0, Role: model.RoleInstructor, ShiftCategory: "講座"},
	}
}

func TestRenderWorkbook_IsXLSX(t *testing.T) {
	out, err := RenderWorkbook(Sheet{Name: "測試", Headers: []string{"名稱", "數量"}, Rows: []Row{{"名稱": "a", "數量": 3}}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("PK")), "xlsx 應為 zip 格式")

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"測試"}, f.GetSheetList())
	rows, err := f.GetRows("測試")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"名稱", "數量"}, {"a", "3"}}, rows)
}

func TestRenderWorkbook_RequiresHeaders(t *testing.T) {
	_, err := RenderWorkbook(Sheet{Name: "x"})
	assert.Error(t, err)
}

func TestSalaryWorkbook_TotalRow(t *testing.T) {
	out, err := SalaryWorkbook(sampleSalaryRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("薪資明細")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, salaryHeaders, rows[0])

	last := rows[3]
	require.Len(t, last, 8)
	assert.Equal(t, "總計", last[6])
	// 1600 + 1400
	assert.Equal(t, "3000", last[7])
}

func TestCoursesWorkbook_FailFast(t *testing.T) {
	_, err := CoursesWorkbook([]model.Course{{ID: "1", Name: "", Day: 1, StartTime: "09:00", EndTime: "10:00"}})
	assert.Error(t, err)
}

func TestSalaryStatement_RoundTripsThroughImport(t *testing.T) {
	out, err := SalaryStatementWorkbook(sampleSalaryRecords())
	require.NoError(t, err)

	n := 0
	res, err := ParseSalaryWorkbook(bytes.NewReader(out), func() string { n++; return "id" })
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "2026-01-10", first.Date)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "17:00", first.EndTime)
	assert.Equal(t, model.RoleAssistant, first.Role)
	assert.Equal(t, "秋季班", first.ShiftCategory)
	assert.Equal(t, float64(1600), first.Pay())

	assert.Equal(t, model.RoleInstructor, res.Records[1].Role)
	assert.Equal(t, 2, n)
}
