package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest("GET", "/api/v1/courses", 200, 15*time.Millisecond)
	m.RecordStoreWrite("courses", "set", "ok")
	m.RecordExport("ics", "courses")
	m.SubscriberAdded()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(w.Body)
	text := string(body)
	for _, want := range []string{
		`http_requests_total{method="GET",path="/api/v1/courses",status="200"} 1`,
		`store_writes_total{collection="courses",op="set",result="ok"} 1`,
		`exports_total{format="ics",kind="courses"} 1`,
		`live_subscribers 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("指標輸出缺少 %s", want)
		}
	}
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.RecordStoreWrite("courses", "set", "ok")
	m.RecordExport("csv", "courses")
	m.SubscriberAdded()
	m.SubscriberRemoved()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != 503 {
		t.Errorf("期望 503，實際: %d", w.Code)
	}
}
