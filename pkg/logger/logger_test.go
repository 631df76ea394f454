package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/BrianLien09/schedule-app/config"
)

func TestNewLogger_Level(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("NewLogger 應成功: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn 等級不應輸出 info")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("warn 等級應輸出 error")
	}
}

func TestNewLogger_Console(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("console 格式應成功: %v", err)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud"}); err == nil {
		t.Error("無效等級應回傳錯誤")
	}
}
