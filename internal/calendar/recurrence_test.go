package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/model"
)

var taipei = time.FixedZone("Asia/Taipei", 8*3600)

func newTestExpander() *Expander {
	return NewExpander(taipei, DefaultHorizonWeeks, zap.NewNop())
}

func TestWeekdayCode(t *testing.T) {
	want := []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA", "SU"}
	for day, code := range want {
		assert.Equal(t, code, WeekdayCode(day), "day=%d", day)
	}
	assert.Empty(t, WeekdayCode(8))
}

func TestCourses_AnchorOnMonday(t *testing.T) {
	// 2026-01-12 為週一
	now := time.Date(2026, 1, 12, 10, 30, 0, 0, taipei)
	course := model.Course{ID: "wed-2", Name: "資料結構", Day: 3, StartTime: "15:10", EndTime: "18:00"}

	occs := newTestExpander().Courses([]model.Course{course}, now)
	require.Len(t, occs, 1)

	occ := occs[0]
	assert.Equal(t, time.Date(2026, 1, 14, 15, 10, 0, 0, taipei), occ.Start)
	assert.Equal(t, time.Date(2026, 1, 14, 18, 0, 0, 0, taipei), occ.End)
	assert.Equal(t, "course-wed-2", occ.UID)
	require.NotNil(t, occ.Rule)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=WE;UNTIL=20260518", occ.Rule.String())
}

func TestCourses_AnchorOnSameWeekday(t *testing.T) {
	// 2026-01-14 為週三
	now := time.Date(2026, 1, 14, 20, 0, 0, 0, taipei)
	course := model.Course{ID: "c1", Name: "資料結構", Day: 3, StartTime: "15:10", EndTime: "18:00"}

	occs := newTestExpander().Courses([]model.Course{course}, now)
	require.Len(t, occs, 1)
	assert.Equal(t, 14, occs[0].Start.Day(), "同一天應以今天為錨點")
}

func TestCourses_SundayNormalised(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, taipei)
	courses := []model.Course{
		{ID: "s7", Name: "週日課", Day: 7, StartTime: "09:00", EndTime: "10:00"},
		{ID: "s0", Name: "週日課", Day: 0, StartTime: "09:00", EndTime: "10:00"},
	}

	occs := newTestExpander().Courses(courses, now)
	require.Len(t, occs, 2)
	for _, occ := range occs {
		assert.Equal(t, 18, occ.Start.Day())
		assert.Equal(t, time.Sunday, occ.Start.Weekday())
		assert.Contains(t, occ.Rule.String(), "BYDAY=SU")
	}
}

func TestCourses_SkipsMalformed(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, taipei)
	courses := []model.Course{
		{ID: "bad", Name: "壞資料", Day: 2, StartTime: "ab", EndTime: "12:00"},
		{ID: "legacy", Name: "舊資料", Day: 2, StartTime: "9:00", EndTime: "10:00"},
		{ID: "day9", Name: "星期錯誤", Day: 9, StartTime: "09:00", EndTime: "10:00"},
	}

	occs := newTestExpander().Courses(courses, now)
	require.Len(t, occs, 1)
	assert.Equal(t, "course-legacy", occs[0].UID)
	assert.Equal(t, 9, occs[0].Start.Hour())
}

func TestWorkShifts(t *testing.T) {
	shifts := []model.WorkShift{
		{ID: "aut-1", Date: "2026-01-10", StartTime: "09:00", EndTime: "18:00", Note: "秋季班"},
		{ID: "plain", Date: "2026-01-11", StartTime: "13:00", EndTime: "18:00"},
		{ID: "bad", Date: "2026/01/12", StartTime: "13:00", EndTime: "18:00"},
	}

	occs := newTestExpander().WorkShifts(shifts)
	require.Len(t, occs, 2)

	assert.Equal(t, "work-aut-1", occs[0].UID)
	assert.Equal(t, "秋季班", occs[0].Title)
	assert.Equal(t, "打工班表：秋季班", occs[0].Description)
	assert.Nil(t, occs[0].Rule)

	assert.Equal(t, "打工", occs[1].Title)
	assert.Equal(t, "打工班表：工作", occs[1].Description)
}

func TestEvents_Priority(t *testing.T) {
	events := []model.Event{
		{ID: "sel-1", Title: "選課", Date: "2026-01-05", Type: model.EventDeadline},
		{ID: "p1", Title: "加退選", Date: "2026-03-02", Type: model.EventPersonal},
	}

	occs := newTestExpander().Events(events)
	require.Len(t, occs, 2)
	assert.True(t, occs[0].AllDay)
	assert.Equal(t, 1, occs[0].Priority)
	assert.Equal(t, 5, occs[1].Priority)
	assert.Equal(t, "event-sel-1", occs[0].UID)
}
