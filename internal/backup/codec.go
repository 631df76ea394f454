package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// Version 目前的備份格式版本
const Version = "1.0"

// ContentType 備份檔 MIME
const ContentType = "application/json; charset=utf-8"

// exportDateLayout ISO-8601 UTC，含毫秒
const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// ── 區段名稱 ──

const (
	sectionCourses    = "courses"
	sectionWorkShifts = "workShifts"
	sectionEvents     = "events"
)

type sectionShape int

const (
	shapeArray sectionShape = iota
	shapeMissing
	shapeNotArray
)

// Envelope 完整資料快照
type Envelope struct {
	Version    string            `json:"version"`
	ExportDate string            `json:"exportDate"`
	Courses    []model.Course    `json:"courses"`
	WorkShifts []model.WorkShift `json:"workShifts"`
	Events     []model.Event     `json:"events"`
	Theme      string            `json:"theme,omitempty"`

	// Decode 時記錄各區段原始型態，Encode 產生的信封一律視為陣列
	shapes map[string]sectionShape
	// Decode 時欄位型別不符的項目索引，依區段分組
	malformed map[string]map[int]bool
}

// Result 驗證結果
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Encode 建立目前狀態的備份信封
func Encode(courses []model.Course, shifts []model.WorkShift, events []model.Event, theme string, now time.Time) *Envelope {
	if courses == nil {
		courses = []model.Course{}
	}
	if shifts == nil {
		shifts = []model.WorkShift{}
	}
	if events == nil {
		events = []model.Event{}
	}
	return &Envelope{
		Version:    Version,
		ExportDate: now.UTC().Format(exportDateLayout),
		Courses:    courses,
		WorkShifts: shifts,
		Events:     events,
		Theme:      theme,
	}
}

// Marshal 兩格縮排的 JSON
func Marshal(env *Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("序列化備份失敗: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// rawEnvelope 先以原始 JSON 讀入，才能分辨區段是缺少、不是陣列或是陣列
type rawEnvelope struct {
	Version    interface{}     `json:"version"`
	ExportDate interface{}     `json:"exportDate"`
	Courses    json.RawMessage `json:"courses"`
	WorkShifts json.RawMessage `json:"workShifts"`
	Events     json.RawMessage `json:"events"`
	Theme      interface{}     `json:"theme"`
}

// Decode 解析備份 JSON
// 只有整份文字不是合法 JSON 物件時才回傳 ParseError；內容缺漏交由 Validate 收集
func Decode(raw []byte) (*Envelope, error) {
	var r rawEnvelope
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, apperrors.NewParseError("備份檔案", err)
	}

	env := &Envelope{
		Version:    stringValue(r.Version),
		ExportDate: stringValue(r.ExportDate),
		Theme:      stringValue(r.Theme),
		shapes:     make(map[string]sectionShape, 3),
	}

	var elems []json.RawMessage
	elems, env.shapes[sectionCourses] = splitArray(r.Courses)
	env.Courses = make([]model.Course, len(elems))
	for i, e := range elems {
		env.decodeItem(sectionCourses, i, e, &env.Courses[i])
	}

	elems, env.shapes[sectionWorkShifts] = splitArray(r.WorkShifts)
	env.WorkShifts = make([]model.WorkShift, len(elems))
	for i, e := range elems {
		env.decodeItem(sectionWorkShifts, i, e, &env.WorkShifts[i])
	}

	elems, env.shapes[sectionEvents] = splitArray(r.Events)
	env.Events = make([]model.Event, len(elems))
	for i, e := range elems {
		env.decodeItem(sectionEvents, i, e, &env.Events[i])
	}

	return env, nil
}

// decodeItem 解析單一項目；欄位型別不符時記下索引，由 Validate 判定為資料不完整
func (e *Envelope) decodeItem(section string, i int, raw json.RawMessage, dst interface{}) {
	if err := json.Unmarshal(raw, dst); err == nil {
		return
	}
	if e.malformed == nil {
		e.malformed = make(map[string]map[int]bool, 3)
	}
	if e.malformed[section] == nil {
		e.malformed[section] = make(map[int]bool)
	}
	e.malformed[section][i] = true
}

func splitArray(raw json.RawMessage) ([]json.RawMessage, sectionShape) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, shapeMissing
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, shapeNotArray
	}
	return elems, shapeArray
}

func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// Validate 收集所有違規項目
func Validate(env *Envelope) Result {
	errs := []string{}
	if env == nil {
		return Result{Valid: false, Errors: []string{"備份內容為空"}}
	}

	if env.Version == "" {
		errs = append(errs, "缺少版本資訊")
	}
	if env.ExportDate == "" {
		errs = append(errs, "缺少匯出日期")
	}

	if env.shape(sectionCourses) != shapeArray {
		errs = append(errs, "課程資料格式錯誤")
	} else {
		for i, c := range env.Courses {
			if env.malformed[sectionCourses][i] || c.ID == "" || c.Name == "" || c.Day == 0 || c.StartTime == "" || c.EndTime == "" {
				errs = append(errs, fmt.Sprintf("課程 #%d 資料不完整", i+1))
			}
		}
	}

	if env.shape(sectionWorkShifts) != shapeArray {
		errs = append(errs, "打工班表資料格式錯誤")
	} else {
		for i, s := range env.WorkShifts {
			if env.malformed[sectionWorkShifts][i] || s.ID == "" || s.Date == "" || s.StartTime == "" || s.EndTime == "" {
				errs = append(errs, fmt.Sprintf("打工班表 #%d 資料不完整", i+1))
			}
		}
	}

	if env.shape(sectionEvents) != shapeArray {
		errs = append(errs, "事件資料格式錯誤")
	} else {
		for i, e := range env.Events {
			if env.malformed[sectionEvents][i] || e.ID == "" || e.Title == "" || e.Date == "" || e.Type == "" {
				errs = append(errs, fmt.Sprintf("事件 #%d 資料不完整", i+1))
			}
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func (e *Envelope) shape(section string) sectionShape {
	if e.shapes == nil {
		// 程式內建立的信封：nil 視為缺少
		switch section {
		case sectionCourses:
			if e.Courses == nil {
				return shapeMissing
			}
		case sectionWorkShifts:
			if e.WorkShifts == nil {
				return shapeMissing
			}
		case sectionEvents:
			if e.Events == nil {
				return shapeMissing
			}
		}
		return shapeArray
	}
	return e.shapes[section]
}

// Filename schedule-backup-YYYY-MM-DD.json
func Filename(now time.Time) string {
	return "schedule-backup-" + now.UTC().Format("2006-01-02") + ".json"
}
