package calendar

import (
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// ContentType .ics 回應的 MIME
const ContentType = "text/calendar; charset=utf-8"

// 匯出檔名
const (
	FilenameCourses = "courses.ics"
	FilenameWork    = "work-schedule.ics"
	FilenameEvents  = "events.ics"
	FilenameAll     = "schedule-all.ics"
)

const (
	uidDomain       = "@schedule-app"
	localDateTime   = "20060102T150405"
	defaultProduct  = "冥夜小助手"
	statusConfirmed = "CONFIRMED"
	transpOpaque    = "OPAQUE"
)

// 文字欄位只轉義 LF，CR 留著會截斷內容行
var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return newlineNormalizer.Replace(s)
}

var (
	propStatus     = ics.ComponentProperty("STATUS")
	propTransp     = ics.ComponentProperty("TRANSP")
	propPriority   = ics.ComponentProperty("PRIORITY")
	propCategories = ics.ComponentProperty("CATEGORIES")
)

// calendarMeta 每種檔案的標頭
type calendarMeta struct {
	label   string
	calName string
}

var (
	metaCourses = calendarMeta{"Course Schedule", "我的課表"}
	metaWork    = calendarMeta{"Work Schedule", "我的打工班表"}
	metaEvents  = calendarMeta{"Important Events", "重要事件"}
	metaAll     = calendarMeta{"Complete Schedule", "我的完整行程"}
)

// 合併檔中每種項目的分類與標題前綴
var kindTags = map[Kind]struct {
	category string
	glyph    string
}{
	KindCourse: {"課程", "📚"},
	KindWork:   {"打工", "💼"},
	KindEvent:  {"重要事件", "⚡"},
}

// Writer 將展開後的項目序列化為 iCalendar 文字
type Writer struct {
	expander *Expander
	product  string
}

// NewWriter 建立 Writer；product 會出現在 PRODID
func NewWriter(expander *Expander, product string) *Writer {
	if product == "" {
		product = defaultProduct
	}
	return &Writer{expander: expander, product: product}
}

// Location 展開時使用的時區
func (w *Writer) Location() *time.Location {
	return w.expander.Location()
}

// WriteCourses 課表
func (w *Writer) WriteCourses(courses []model.Course, now time.Time) string {
	return w.render(metaCourses, now, false, w.expander.Courses(courses, now))
}

// WriteWorkShifts 打工班表
func (w *Writer) WriteWorkShifts(shifts []model.WorkShift, now time.Time) string {
	return w.render(metaWork, now, false, w.expander.WorkShifts(shifts))
}

// WriteEvents 重要事件
func (w *Writer) WriteEvents(events []model.Event, now time.Time) string {
	return w.render(metaEvents, now, false, w.expander.Events(events))
}

// WriteAll 合併三種資料，並加上分類與標題前綴
func (w *Writer) WriteAll(courses []model.Course, shifts []model.WorkShift, events []model.Event, now time.Time) string {
	occs := w.expander.Courses(courses, now)
	occs = append(occs, w.expander.WorkShifts(shifts)...)
	occs = append(occs, w.expander.Events(events)...)
	return w.render(metaAll, now, true, occs)
}

// render 同一次匯出的所有項目共用同一個 DTSTAMP
func (w *Writer) render(meta calendarMeta, now time.Time, tagged bool, occs []Occurrence) string {
	cal := ics.NewCalendar()
	cal.SetProductId("-//" + w.product + "//" + meta.label + "//ZH")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(meta.calName)
	cal.SetXWRTimezone(w.expander.Location().String())

	for _, occ := range occs {
		addOccurrence(cal, occ, now, tagged)
	}

	return cal.Serialize()
}

func addOccurrence(cal *ics.Calendar, occ Occurrence, stamp time.Time, tagged bool) {
	evt := cal.AddEvent(occ.UID + uidDomain)
	evt.SetDtStampTime(stamp)

	if occ.AllDay {
		evt.SetAllDayStartAt(occ.Start)
	} else {
		// 不帶時區的浮動時間，由 X-WR-TIMEZONE 解讀
		evt.SetProperty(ics.ComponentPropertyDtStart, occ.Start.Format(localDateTime))
		evt.SetProperty(ics.ComponentPropertyDtEnd, occ.End.Format(localDateTime))
	}
	if occ.Rule != nil {
		evt.SetProperty(ics.ComponentPropertyRrule, occ.Rule.String())
	}

	summary := occ.Title
	if tagged {
		summary = kindTags[occ.Kind].glyph + " " + summary
	}
	evt.SetSummary(normalizeNewlines(summary))
	if occ.Location != "" {
		evt.SetLocation(normalizeNewlines(occ.Location))
	}
	if occ.Description != "" {
		evt.SetDescription(normalizeNewlines(occ.Description))
	}
	evt.SetProperty(propStatus, statusConfirmed)
	if !occ.AllDay {
		evt.SetProperty(propTransp, transpOpaque)
	}
	if occ.Priority > 0 {
		evt.SetProperty(propPriority, strconv.Itoa(occ.Priority))
	}
	if tagged {
		evt.SetProperty(propCategories, kindTags[occ.Kind].category)
	}
}
