package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("寫入設定檔失敗: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
auth:
  jwt_secret: "file-secret-0123456789"
store:
  driver: mongo
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 應成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，實際=%d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "mongo" {
		t.Errorf("期望 driver=mongo，實際=%s", cfg.Store.Driver)
	}
	if cfg.Export.HorizonWeeks != 18 {
		t.Errorf("期望預設 horizon_weeks=18，實際=%d", cfg.Export.HorizonWeeks)
	}
	if cfg.Export.Timezone != "Asia/Taipei" {
		t.Errorf("期望預設 timezone=Asia/Taipei，實際=%s", cfg.Export.Timezone)
	}
	if cfg.Redis.ChangeChannel == "" {
		t.Error("change_channel 應有預設值")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt_secret: "file-secret-0123456789"
`)
	t.Setenv("SCHEDULE_AUTH_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("SCHEDULE_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 應成功: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret-0123456789" {
		t.Errorf("環境變數應覆蓋設定檔，實際=%s", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("期望 port=7070，實際=%d", cfg.Server.Port)
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt_secret: "short"
`)
	if _, err := Load(path); err == nil {
		t.Error("過短的 jwt_secret 應被拒絕")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Store:  StoreConfig{Driver: "memory"},
		Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
		Export: ExportConfig{Timezone: "Asia/Taipei", HorizonWeeks: 18},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法設定", func(c *Config) {}, false},
		{"未知 driver", func(c *Config) { c.Store.Driver = "sqlite" }, true},
		{"無效時區", func(c *Config) { c.Export.Timezone = "Mars/Olympus" }, true},
		{"horizon 為 0", func(c *Config) { c.Export.HorizonWeeks = 0 }, true},
		{"port 超出範圍", func(c *Config) { c.Server.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v，期望錯誤=%v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "Asia/Taipei"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=Asia/Taipei"
	if got := c.DSN(); got != want {
		t.Errorf("期望 %s，實際 %s", want, got)
	}
}
