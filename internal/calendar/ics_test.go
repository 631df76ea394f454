package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrianLien09/schedule-app/internal/model"
)

func newTestWriter() *Writer {
	return NewWriter(newTestExpander(), "冥夜小助手")
}

// assertCRLF 每一行都必須以 CRLF 結尾
func assertCRLF(t *testing.T, out string) {
	t.Helper()
	require.True(t, strings.HasSuffix(out, "\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		require.NotContains(t, line, "\n", "出現未以 CRLF 結尾的行")
	}
}

func TestWriteWorkShifts(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, taipei)
	shifts := []model.WorkShift{{ID: "aut-1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"}}

	out := newTestWriter().WriteWorkShifts(shifts, now)

	assertCRLF(t, out)
	assert.Contains(t, out, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, out, "VERSION:2.0\r\n")
	assert.Contains(t, out, "PRODID:-//冥夜小助手//Work Schedule//ZH\r\n")
	assert.Contains(t, out, "X-WR-CALNAME:我的打工班表\r\n")
	assert.Contains(t, out, "X-WR-TIMEZONE:Asia/Taipei\r\n")
	assert.Contains(t, out, "UID:work-aut-1@schedule-app\r\n")
	assert.Contains(t, out, "DTSTART:20260110T090000\r\n")
	assert.Contains(t, out, "DTEND:20260110T180000\r\n")
	assert.Contains(t, out, "SUMMARY:秋季班\r\n")
	assert.Contains(t, out, "DESCRIPTION:打工班表：秋季班\r\n")
	assert.Contains(t, out, "STATUS:CONFIRMED\r\n")
	assert.Contains(t, out, "TRANSP:OPAQUE\r\n")
	assert.Contains(t, out, "END:VCALENDAR\r\n")
	assert.NotContains(t, out, "RRULE")
}

func TestWrite_CarriageReturnsBecomeEscapedNewlines(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, taipei)
	shifts := []model.WorkShift{{ID: "w1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "早班\r\n帶鑰匙\r關門"}}
	courses := []model.Course{{ID: "c1", Name: "英文", Day: 1, StartTime: "09:00", EndTime: "10:00", Location: "G5\r13"}}

	out := newTestWriter().WriteAll(courses, shifts, nil, now)

	assertCRLF(t, out)
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\r", "文字欄位不應留下單獨的 CR")
	assert.Contains(t, out, `SUMMARY:💼 早班\n帶鑰匙\n關門`)
	assert.Contains(t, out, `LOCATION:G5\n13`)
}

func TestWriteCourses(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, taipei)
	courses := []model.Course{
		{ID: "wed-2", Name: "資料結構", Day: 3, StartTime: "15:10", EndTime: "18:00", Location: "G513"},
		{ID: "tue-1", Name: "大學生活", Day: 2, StartTime: "13:10", EndTime: "15:00"},
	}

	out := newTestWriter().WriteCourses(courses, now)

	assertCRLF(t, out)
	assert.Contains(t, out, "X-WR-CALNAME:我的課表\r\n")
	assert.Contains(t, out, "UID:course-wed-2@schedule-app\r\n")
	assert.Contains(t, out, "DTSTART:20260114T151000\r\n")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=WE;UNTIL=20260518\r\n")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=TU;UNTIL=20260518\r\n")
	assert.Contains(t, out, "DESCRIPTION:課程：資料結構\r\n")
	assert.Equal(t, 1, strings.Count(out, "LOCATION:"), "沒有地點的課程不應輸出 LOCATION")
	assert.Contains(t, out, "LOCATION:G513\r\n")
}

func TestWrite_SingleDTSTAMPPerCall(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, taipei)
	shifts := []model.WorkShift{
		{ID: "a", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00"},
		{ID: "b", Date: "2026-01-11", StartTime: "09:00", EndTime: "18:00"},
		{ID: "c", Date: "2026-01-12", StartTime: "09:00", EndTime: "18:00"},
	}

	out := newTestWriter().WriteWorkShifts(shifts, now)

	var stamps []string
	for _, line := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(line, "DTSTAMP:") {
			stamps = append(stamps, line)
		}
	}
	require.Len(t, stamps, 3)
	for _, s := range stamps {
		assert.Equal(t, "DTSTAMP:20260112T020000Z", s)
	}
}

func TestWriteEvents(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, taipei)
	events := []model.Event{
		{ID: "sel-1", Title: "本系選課", Date: "2026-01-06", Description: "19:00 開始", Type: model.EventDeadline},
		{ID: "sel-5", Title: "人工加退選", Date: "2026-03-02", Type: model.EventPersonal},
	}

	out := newTestWriter().WriteEvents(events, now)

	assertCRLF(t, out)
	assert.Contains(t, out, "X-WR-CALNAME:重要事件\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260106\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260302\r\n")
	assert.Contains(t, out, "PRIORITY:1\r\n")
	assert.Contains(t, out, "PRIORITY:5\r\n")
	assert.NotContains(t, out, "DTEND")
	assert.NotContains(t, out, "TRANSP")
	assert.Equal(t, 1, strings.Count(out, "DESCRIPTION:"))
}

func TestWriteAll(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, taipei)
	courses := []model.Course{{ID: "1", Name: "資料結構", Day: 3, StartTime: "15:10", EndTime: "18:00"}}
	shifts := []model.WorkShift{{ID: "1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"}}
	events := []model.Event{{ID: "1", Title: "選課", Date: "2026-01-06", Type: model.EventDeadline}}

	out := newTestWriter().WriteAll(courses, shifts, events, now)

	assertCRLF(t, out)
	assert.Contains(t, out, "PRODID:-//冥夜小助手//Complete Schedule//ZH\r\n")
	assert.Contains(t, out, "X-WR-CALNAME:我的完整行程\r\n")

	// 三種記錄共用同一個原始 ID，UID 仍不可重複
	assert.Contains(t, out, "UID:course-1@schedule-app\r\n")
	assert.Contains(t, out, "UID:work-1@schedule-app\r\n")
	assert.Contains(t, out, "UID:event-1@schedule-app\r\n")

	assert.Contains(t, out, "SUMMARY:📚 資料結構\r\n")
	assert.Contains(t, out, "SUMMARY:💼 秋季班\r\n")
	assert.Contains(t, out, "SUMMARY:⚡ 選課\r\n")
	assert.Contains(t, out, "CATEGORIES:課程\r\n")
	assert.Contains(t, out, "CATEGORIES:打工\r\n")
	assert.Contains(t, out, "CATEGORIES:重要事件\r\n")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
}

func TestWrite_SkipsMalformedRecords(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, taipei)
	shifts := []model.WorkShift{
		{ID: "bad", Date: "not-a-date", StartTime: "09:00", EndTime: "18:00"},
		{ID: "ok", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00"},
	}

	out := newTestWriter().WriteWorkShifts(shifts, now)
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:work-ok@schedule-app")
}

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//school//timetable//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1\r\n" +
	"DTSTART:20260114T151000\r\n" +
	"DTEND:20260114T180000\r\n" +
	"SUMMARY:資料結構\r\n" +
	"LOCATION:G513\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:2\r\n" +
	"DTSTART:20260121T151000\r\n" +
	"DTEND:20260121T180000\r\n" +
	"SUMMARY:資料結構\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:3\r\n" +
	"DTSTART:20260112T051000Z\r\n" +
	"DTEND:20260112T080000Z\r\n" +
	"SUMMARY:數位電子學\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseCourses(t *testing.T) {
	courses, err := ParseCourses(strings.NewReader(sampleICS), taipei)
	require.NoError(t, err)
	require.Len(t, courses, 2, "同名同時段的事件應合併")

	assert.Equal(t, "資料結構", courses[0].Name)
	assert.Equal(t, 3, courses[0].Day)
	assert.Equal(t, "15:10", courses[0].StartTime)
	assert.Equal(t, "18:00", courses[0].EndTime)
	assert.Equal(t, "G513", courses[0].Location)

	// UTC 05:10 → 台北 13:10，週一
	assert.Equal(t, "數位電子學", courses[1].Name)
	assert.Equal(t, 1, courses[1].Day)
	assert.Equal(t, "13:10", courses[1].StartTime)
	assert.Equal(t, "16:00", courses[1].EndTime)
}

func TestParseCourses_ReadsOwnExport(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, taipei)
	in := []model.Course{{ID: "fri-1", Name: "C程式設計", Day: 5, StartTime: "13:10", EndTime: "16:00", Location: "G512"}}

	out := newTestWriter().WriteCourses(in, now)
	parsed, err := ParseCourses(strings.NewReader(out), taipei)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Equal(t, in[0].Name, parsed[0].Name)
	assert.Equal(t, in[0].Day, parsed[0].Day)
	assert.Equal(t, in[0].StartTime, parsed[0].StartTime)
	assert.Equal(t, in[0].EndTime, parsed[0].EndTime)
	assert.Equal(t, in[0].Location, parsed[0].Location)
}

func TestFetchICSContent_RejectsUnsafeURLs(t *testing.T) {
	for _, raw := range []string{
		"http://example.com/calendar.ics",
		"file:///etc/passwd",
		"https://localhost/x.ics",
		"webcal://127.0.0.1/x.ics",
		"https://10.0.0.8/x.ics",
		"https://169.254.169.254/latest/meta-data",
		"https://[::1]:8443/x.ics",
		"https:///x.ics",
	} {
		t.Run(raw, func(t *testing.T) {
			body, err := FetchICSContent(context.Background(), raw)
			if body != nil {
				body.Close()
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errDisallowedURL), "錯誤應標示為不允許的網址: %v", err)
		})
	}
}

func TestCheckFetchURL_WebcalBecomesHTTPS(t *testing.T) {
	u, err := checkFetchURL("webcal://calendar.example.edu/feed.ics")
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.example.edu/feed.ics", u.String())
}
