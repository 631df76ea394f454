package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BrianLien09/schedule-app/config"
	"github.com/BrianLien09/schedule-app/internal/api/handler"
	"github.com/BrianLien09/schedule-app/internal/api/router"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/repository"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/database"
	"github.com/BrianLien09/schedule-app/pkg/jwt"
	applogger "github.com/BrianLien09/schedule-app/pkg/logger"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
	"github.com/BrianLien09/schedule-app/pkg/mongodb"
	"github.com/BrianLien09/schedule-app/pkg/redis"
)

func main() {
	// 1. 載入設定
	cfg, err := config.Load(os.Getenv("SCHEDULE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "載入設定失敗: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日誌
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日誌失敗: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("應用啟動中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	if err := dto.RegisterValidators(); err != nil {
		logger.Fatal("註冊參數驗證器失敗", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. 文件儲存
	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	// 4. 連線 Redis（選用：失敗時降級為單機通知、不限流）
	var (
		rdb   *redis.Client
		relay repository.ChangeRelay
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 連線失敗，變更通知僅限本機且不限流", zap.Error(err))
			rdb = nil
		} else {
			relay = rdb
		}
	}

	// 5. 指標、權限守門與快照派送
	m := metrics.New()
	guarded := repository.NewGuardedStore(store, cfg.Auth.WriteAllowlist, logger, m)
	hub := repository.NewBroadcaster(store, relay, cfg.Redis.ChangeChannel, logger, m)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("變更通知監聽中斷", zap.Error(err))
		}
	}()

	// 6. 依賴注入: Repository → Service → Handler
	repo := repository.NewRepository(guarded, hub, logger)
	svc, err := service.NewService(cfg, repo, m, logger)
	if err != nil {
		logger.Fatal("初始化服務失敗", zap.Error(err))
	}
	h := handler.NewHandler(svc, guarded)

	// 7. 初始化路由
	jwtMgr := jwt.NewManager(&cfg.Auth)
	engine := router.Setup(cfg, h, jwtMgr, rdb, m, logger)

	// 8. 啟動 HTTP 伺服器（優雅關閉）
	// SSE 連線會長時間寫入，不設 WriteTimeout
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 伺服器已啟動", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 伺服器異常", zap.Error(err))
		}
	}()

	// 9. 監聽系統訊號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到關閉訊號，開始優雅關閉...", zap.String("signal", sig.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("伺服器關閉異常", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("伺服器已關閉")
}

// openStore 依 store.driver 建立文件儲存，回傳關閉函式
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DocumentStore, func()) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, &cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("MongoDB 連線失敗", zap.Error(err))
		}
		return repository.NewMongoStore(db), func() { disconnectMongo(client, logger) }

	case "postgres":
		db, err := database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("資料庫連線失敗", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("取得底層 sql.DB 失敗", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("資料庫遷移失敗", zap.Error(err))
		}
		return repository.NewPostgresStore(db), func() { closeGorm(db) }

	default:
		logger.Warn("使用記憶體儲存，重新啟動後資料會消失")
		return repository.NewMemoryStore(), func() {}
	}
}

func disconnectMongo(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("MongoDB 關閉異常", zap.Error(err))
	}
}

func closeGorm(db *gorm.DB) {
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
}
