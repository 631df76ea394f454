package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// DefaultHorizonWeeks 課程每週重複的預設期限（約一學期）
const DefaultHorizonWeeks = 18

// Kind 行程來源類型
type Kind string

const (
	KindCourse Kind = "course"
	KindWork   Kind = "work"
	KindEvent  Kind = "event"
)

// weekdayCodes 以週日=0 為基準
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// WeekdayCode 1-7 → MO..SU；0 與 7 都代表週日
func WeekdayCode(day int) string {
	if day == 7 {
		day = 0
	}
	if day < 0 || day > 6 {
		return ""
	}
	return weekdayCodes[day]
}

// WeeklyRule 每週重複規則
type WeeklyRule struct {
	Weekday int // 0-6，週日=0
	Until   time.Time
}

// String RRULE 值，例如 FREQ=WEEKLY;BYDAY=WE;UNTIL=20260520
func (r WeeklyRule) String() string {
	return fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", WeekdayCode(r.Weekday), r.Until.Format("20060102"))
}

// Occurrence 由記錄展開的一筆行事曆項目
type Occurrence struct {
	UID         string
	Kind        Kind
	Title       string
	Location    string
	Description string
	Start       time.Time // 所在時區的牆上時間
	End         time.Time // AllDay 時為零值
	AllDay      bool
	Rule        *WeeklyRule
	Priority    int // 0 表示不輸出
}

// Expander 將課程、班次與事件展開為行事曆項目
// 格式錯誤的記錄會被略過，不中斷整批匯出
type Expander struct {
	loc          *time.Location
	horizonWeeks int
	logger       *zap.Logger
}

// NewExpander 建立 Expander；horizonWeeks <= 0 時使用預設值
func NewExpander(loc *time.Location, horizonWeeks int, logger *zap.Logger) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{loc: loc, horizonWeeks: horizonWeeks, logger: logger}
}

// Location 展開使用的時區
func (e *Expander) Location() *time.Location {
	return e.loc
}

// Courses 每門課產生一筆：下一個對應星期的日期為錨點，加上每週重複規則
func (e *Expander) Courses(courses []model.Course, now time.Time) []Occurrence {
	now = now.In(e.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
	until := today.AddDate(0, 0, e.horizonWeeks*7)
	current := int(now.Weekday())

	out := make([]Occurrence, 0, len(courses))
	for _, c := range courses {
		if c.Day < 0 || c.Day > 7 {
			e.skip(KindCourse, c.ID, "星期超出範圍")
			continue
		}
		sh, sm, errStart := parseClock(c.StartTime)
		eh, em, errEnd := parseClock(c.EndTime)
		if errStart != nil || errEnd != nil {
			e.skip(KindCourse, c.ID, "時間格式錯誤")
			continue
		}

		target := c.Day % 7
		daysUntil := (target - current + 7) % 7
		anchor := today.AddDate(0, 0, daysUntil)

		out = append(out, Occurrence{
			UID:         "course-" + c.ID,
			Kind:        KindCourse,
			Title:       c.Name,
			Location:    c.Location,
			Description: "課程：" + c.Name,
			Start:       atClock(anchor, sh, sm),
			End:         atClock(anchor, eh, em),
			Rule:        &WeeklyRule{Weekday: target, Until: until},
		})
	}
	return out
}

// WorkShifts 每個班次產生一筆單次項目
func (e *Expander) WorkShifts(shifts []model.WorkShift) []Occurrence {
	out := make([]Occurrence, 0, len(shifts))
	for _, s := range shifts {
		day, err := time.ParseInLocation("2006-01-02", s.Date, e.loc)
		if err != nil {
			e.skip(KindWork, s.ID, "日期格式錯誤")
			continue
		}
		sh, sm, errStart := parseClock(s.StartTime)
		eh, em, errEnd := parseClock(s.EndTime)
		if errStart != nil || errEnd != nil {
			e.skip(KindWork, s.ID, "時間格式錯誤")
			continue
		}

		title := s.Note
		if title == "" {
			title = "打工"
		}
		detail := s.Note
		if detail == "" {
			detail = "工作"
		}

		out = append(out, Occurrence{
			UID:         "work-" + s.ID,
			Kind:        KindWork,
			Title:       title,
			Description: "打工班表：" + detail,
			Start:       atClock(day, sh, sm),
			End:         atClock(day, eh, em),
		})
	}
	return out
}

// Events 每個事件產生一筆全天項目；deadline 優先級最高
func (e *Expander) Events(events []model.Event) []Occurrence {
	out := make([]Occurrence, 0, len(events))
	for _, ev := range events {
		day, err := time.ParseInLocation("2006-01-02", ev.Date, e.loc)
		if err != nil {
			e.skip(KindEvent, ev.ID, "日期格式錯誤")
			continue
		}

		priority := 5
		if ev.Type == model.EventDeadline {
			priority = 1
		}

		out = append(out, Occurrence{
			UID:         "event-" + ev.ID,
			Kind:        KindEvent,
			Title:       ev.Title,
			Description: ev.Description,
			Start:       day,
			AllDay:      true,
			Priority:    priority,
		})
	}
	return out
}

func (e *Expander) skip(kind Kind, id, reason string) {
	e.logger.Debug("略過無法展開的記錄",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("reason", reason),
	)
}

// parseClock 寬鬆解析 H:MM 或 HH:MM，舊資料可能未補零
func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("時間格式錯誤: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("小時無效: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("分鐘無效: %q", s)
	}
	return h, m, nil
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
