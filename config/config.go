package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // 容器映像可能缺少系統時區資料

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用全域設定
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 伺服器設定
type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	BodyLimitMB int64      `mapstructure:"body_limit_mb"`
	CORS        CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StoreConfig 文件儲存設定
// Driver: memory | mongo | postgres
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// MongoConfig MongoDB 連線設定
type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig PostgreSQL 連線設定
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN 產生 PostgreSQL 連線字串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 設定，用於快照變更通知與限流
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChangeChannel string `mapstructure:"change_channel"`
}

// AuthConfig 身分驗證設定
// 身分提供者簽發 HS256 token；WriteAllowlist 為空時所有已登入使用者皆可寫入
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	WriteAllowlist []string      `mapstructure:"write_allowlist"`
}

// ExportConfig 匯出設定
type ExportConfig struct {
	Timezone     string `mapstructure:"timezone"`
	HorizonWeeks int    `mapstructure:"horizon_weeks"`
	ProductName  string `mapstructure:"product_name"`
	PDFFontPath  string `mapstructure:"pdf_font_path"`
}

// Location 解析匯出使用的時區
func (c *ExportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LogConfig 日誌設定
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能開關
type FeatureConfig struct {
	LiveStreamEnabled bool `mapstructure:"live_stream_enabled"`
	ImportRateLimit   int  `mapstructure:"import_rate_limit"` // 每分鐘匯入次數上限，0 表示不限
}

// Load 依序載入 .env、設定檔與環境變數
// 優先順序：環境變數 > 設定檔 > 預設值
func Load(path string) (*Config, error) {
	// .env 不存在時忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 預設值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 10)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("store.driver", "memory")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "schedule_app")
	v.SetDefault("mongo.timeout", "10s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "schedule_app")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Taipei")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.change_channel", "schedule-app:changes")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "schedule-app")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.write_allowlist", []string{})

	v.SetDefault("export.timezone", "Asia/Taipei")
	v.SetDefault("export.horizon_weeks", 18)
	v.SetDefault("export.product_name", "冥夜小助手")
	v.SetDefault("export.pdf_font_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.live_stream_enabled", true)
	v.SetDefault("feature.import_rate_limit", 20)

	// ── 設定檔 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 環境變數 ──
	v.SetEnvPrefix("SCHEDULE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("讀取設定檔失敗: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析設定失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 檢查關鍵設定
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("設定檢查失敗: auth.jwt_secret 長度不可少於 16 字元")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("設定檢查失敗: server.port 必須介於 1-65535")
	}
	switch c.Store.Driver {
	case "memory", "mongo", "postgres":
	default:
		return fmt.Errorf("設定檢查失敗: 不支援的 store.driver %q", c.Store.Driver)
	}
	if _, err := c.Export.Location(); err != nil {
		return fmt.Errorf("設定檢查失敗: export.timezone 無效: %w", err)
	}
	if c.Export.HorizonWeeks <= 0 {
		return fmt.Errorf("設定檢查失敗: export.horizon_weeks 必須大於 0")
	}
	return nil
}
