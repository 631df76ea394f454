package backup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func sampleState() ([]model.Course, []model.WorkShift, []model.Event) {
	courses := []model.Course{
		{ID: "c1", Name: "數位電子學", Day: 1, StartTime: "13:10", EndTime: "16:00", Location: "G512"},
		{ID: "c2", Name: "英文", Day: 7, StartTime: "09:00", EndTime: "10:00"},
	}
	shifts := []model.WorkShift{
		{ID: "w1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"},
	}
	events := []model.Event{
		{ID: "e1", Title: "期末考", Date: "2026-01-20", Type: model.EventExam},
	}
	return courses, shifts, events
}

func TestRoundTrip_IsValid(t *testing.T) {
	courses, shifts, events := sampleState()
	env := Encode(courses, shifts, events, "dark", time.Date(2026, 1, 12, 2, 0, 0, 0, time.UTC))

	raw, err := Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"version\": \"1.0\"")
	assert.Contains(t, string(raw), `"exportDate": "2026-01-12T02:00:00.000Z"`)

	decoded, err := Decode(raw)
	require.NoError(t, err)

	res := Validate(decoded)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.Equal(t, courses, decoded.Courses)
	assert.Equal(t, shifts, decoded.WorkShifts)
	assert.Equal(t, events, decoded.Events)
	assert.Equal(t, "dark", decoded.Theme)
}

func TestEncode_EmptyStateIsValid(t *testing.T) {
	env := Encode(nil, nil, nil, "", time.Now())
	raw, err := Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"courses": []`)
	assert.NotContains(t, string(raw), "theme")

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.True(t, Validate(decoded).Valid)
}

func TestEncode_Idempotent(t *testing.T) {
	courses, shifts, events := sampleState()
	a := Encode(courses, shifts, events, "", time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC))
	b := Encode(courses, shifts, events, "", time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC))

	assert.NotEqual(t, a.ExportDate, b.ExportDate)
	a.ExportDate, b.ExportDate = "", ""
	assert.Equal(t, a, b)
}

func TestValidate_MissingShiftStartTime(t *testing.T) {
	raw := `{
  "version": "1.0",
  "exportDate": "2026-01-12T02:00:00.000Z",
  "courses": [],
  "workShifts": [{"id": "w1", "date": "2026-01-10", "endTime": "18:00"}],
  "events": []
}`
	env, err := Decode([]byte(raw))
	require.NoError(t, err)

	res := Validate(env)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"打工班表 #1 資料不完整"}, res.Errors)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	raw := `{
  "courses": {"c1": {}},
  "workShifts": [{"id": "w1", "date": "2026-01-10", "startTime": "09:00", "endTime": "18:00"}],
  "events": [{"id": "e1", "title": "報告", "date": "2026-01-10"}, {"id": "e2", "title": "放假", "date": "2026-01-11", "type": "holiday"}, 42]
}`
	env, err := Decode([]byte(raw))
	require.NoError(t, err)

	res := Validate(env)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"缺少版本資訊",
		"缺少匯出日期",
		"課程資料格式錯誤",
		"事件 #1 資料不完整",
		"事件 #3 資料不完整",
	}, res.Errors)
}

func TestValidate_MissingSectionsAndWrongTypes(t *testing.T) {
	raw := `{"version": "1.0", "exportDate": "x", "courses": [{"id": "c1", "name": "n", "day": "3", "startTime": "09:00", "endTime": "10:00"}]}`
	env, err := Decode([]byte(raw))
	require.NoError(t, err)

	res := Validate(env)
	assert.Equal(t, []string{
		"課程 #1 資料不完整",
		"打工班表資料格式錯誤",
		"事件資料格式錯誤",
	}, res.Errors)
}

func TestValidate_OptionalFieldWithWrongType(t *testing.T) {
	raw := `{"version": "1.0", "exportDate": "2026-01-12T02:00:00.000Z",
		"courses": [{"id": "c1", "name": "數位電子學", "day": 1, "startTime": "13:10", "endTime": "16:00", "location": 512}],
		"workShifts": [{"id": "w1", "date": "2026-01-10", "startTime": "09:00", "endTime": "18:00", "note": 7}],
		"events": [{"id": "e1", "title": "期末考", "date": "2026-01-20", "type": "exam"}]}`
	env, err := Decode([]byte(raw))
	require.NoError(t, err)

	res := Validate(env)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"課程 #1 資料不完整",
		"打工班表 #1 資料不完整",
	}, res.Errors)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	require.Error(t, err)
	_, ok := apperrors.IsParse(err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(err.Error(), "無法讀取備份檔案"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "schedule-backup-2026-01-12.json", Filename(time.Date(2026, 1, 12, 5, 0, 0, 0, time.UTC)))
}
