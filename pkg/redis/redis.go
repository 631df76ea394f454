package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/config"
)

// Client Redis 客戶端封裝
// 用於跨實例的集合變更通知與匯入限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 建立 Redis 連線並執行 Ping 健康檢查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 連線失敗: %w", err)
	}

	logger.Info("Redis 連線成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromRedis 以既有的 go-redis 連線建立 Client（測試用）
func NewFromRedis(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── 集合變更通知 ──

// ChangeMessage 集合變更訊息
type ChangeMessage struct {
	Collection string `json:"collection"`
	Origin     string `json:"origin"`
}

// PublishChange 發布集合變更
func (c *Client) PublishChange(ctx context.Context, channel string, msg ChangeMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// ListenChanges 訂閱變更頻道，直到 ctx 取消
// 解析失敗的訊息會被略過
func (c *Client) ListenChanges(ctx context.Context, channel string, fn func(ChangeMessage)) error {
	sub := c.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("訂閱 %s 失敗: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg ChangeMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				c.logger.Warn("略過無法解析的變更訊息", zap.String("payload", m.Payload))
				continue
			}
			fn(msg)
		}
	}
}

// ── 限流 ──

const rateLimitPrefix = "ratelimit:"

// CheckRateLimit 固定視窗計數限流
// 回傳 true 表示仍在額度內
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitPrefix + key

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(limit), nil
}

// Close 關閉 Redis 連線
func (c *Client) Close() error {
	return c.rdb.Close()
}
