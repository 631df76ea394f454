package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/repository"
)

// ── 測試輔助 ──

var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// testNow 2026-01-12（週一）10:30 台北時間
var testNow = time.Date(2026, 1, 12, 10, 30, 0, 0, taipei)

func newTestRepo() *repository.Repository {
	return repository.NewMemoryRepository(zap.NewNop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// tickingClock 每次呼叫前進一毫秒，避免以毫秒為 ID 的記錄互相覆蓋
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

var bg = context.Background()
