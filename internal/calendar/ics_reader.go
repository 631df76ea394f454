package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// ── ICS 課表匯入 ──────────────────────────────────────────────
//
// 由 DTSTART/DTEND 決定星期與時間，同名同時段的多個 VEVENT
// 視為同一門課（部分學校系統以多個單次事件表示每週課程）。
// ───────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024
	icsFetchTimeout = 30 * time.Second
)

// errDisallowedURL 網址的協定或主機不允許下載
var errDisallowedURL = errors.New("不允許的 ICS 網址")

// FetchICSContent 由網址下載 ICS；webcal:// 視為 https://
// 只接受 https，且不連線到本機、內網或鏈路本地位址（含轉址與 DNS 解析結果）
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := checkFetchURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("無效的 ICS 網址: %w", err)
	}
	resp, err := newFetchClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("下載 ICS 失敗: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("下載 ICS 失敗: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// checkFetchURL 正規化 webcal 並檢查協定與主機
func checkFetchURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("無效的 ICS 網址: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
	case "webcal":
		u.Scheme = "https"
	default:
		return nil, fmt.Errorf("%w: 僅支援 https 或 webcal，實際為 %q", errDisallowedURL, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: 缺少主機", errDisallowedURL)
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return nil, fmt.Errorf("%w: %s", errDisallowedURL, host)
	}
	if ip := net.ParseIP(host); ip != nil && blockedIP(ip) {
		return nil, fmt.Errorf("%w: %s", errDisallowedURL, host)
	}
	return u, nil
}

func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast()
}

// newFetchClient 連線前檢查實際撥號的位址，轉址也只能到 https
func newFetchClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || blockedIP(ip) {
				return fmt.Errorf("%w: %s", errDisallowedURL, host)
			}
			return nil
		},
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:   icsFetchTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("轉址次數過多")
			}
			if req.URL.Scheme != "https" {
				return fmt.Errorf("%w: 轉址到 %s", errDisallowedURL, req.URL.Scheme)
			}
			return nil
		},
	}
}

// ParseCourses 解析 ICS 為課程（ID 留空，由呼叫端指定）
// 無法解析的單一 VEVENT 會被略過；整份檔案無法解析時回傳 ParseError
func ParseCourses(r io.Reader, loc *time.Location) ([]model.Course, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, apperrors.NewParseError("ICS 檔案", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	type key struct {
		name  string
		day   int
		start string
		end   string
	}
	seen := make(map[key]bool)
	var out []model.Course

	for _, evt := range cal.Events() {
		c, ok := courseFromEvent(evt, loc)
		if !ok {
			continue
		}
		k := key{c.Name, c.Day, c.StartTime, c.EndTime}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out, nil
}

func courseFromEvent(evt *ics.VEvent, loc *time.Location) (model.Course, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.Course{}, false
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return model.Course{}, false
	}
	end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil || !end.After(start) {
		return model.Course{}, false
	}
	// 跨日課程無法以單日時段表示
	if end.YearDay() != start.YearDay() {
		return model.Course{}, false
	}

	c := model.Course{
		Name:      strings.TrimSpace(summary.Value),
		Day:       ISOWeekday(start.Weekday()),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
	}
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
		c.Location = strings.TrimSpace(p.Value)
	}
	return c, true
}

// parseICSDateTime 支援 UTC、TZID 與浮動時間三種寫法
func parseICSDateTime(evt *ics.VEvent, prop ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	p := evt.GetProperty(prop)
	if p == nil {
		return time.Time{}, fmt.Errorf("缺少 %s", prop)
	}

	tzid := ""
	for k, v := range p.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405"} {
		t, err := time.Parse(layout, p.Value)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("無法解析日期: %s", p.Value)
}
