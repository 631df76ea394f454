package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/config"
	"github.com/BrianLien09/schedule-app/internal/api/handler"
	"github.com/BrianLien09/schedule-app/internal/api/middleware"
	"github.com/BrianLien09/schedule-app/pkg/jwt"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
	"github.com/BrianLien09/schedule-app/pkg/redis"
)

// Setup 初始化並回傳 Gin 路由引擎
// rdb 為 nil 時不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全域中介層 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))

	// ── 健康檢查與指標 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	importLimit := middleware.RateLimit(rdb, cfg.Feature.ImportRateLimit, time.Minute)

	// ── API v1（全部需要登入）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.IdentityAuth(jwtMgr))
	{
		v1.GET("/me", h.Session.Me)

		// 課程
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.List)
			courses.GET("/:id", h.Course.Get)
			courses.POST("", h.Course.Create)
			courses.PUT("/:id", h.Course.Update)
			courses.DELETE("/:id", h.Course.Delete)
			courses.POST("/import", importLimit, h.Course.ImportICS)
		}

		// 打工班表
		shifts := v1.Group("/work-shifts")
		{
			shifts.GET("", h.WorkShift.List)
			shifts.GET("/templates", h.WorkShift.Templates)
			shifts.POST("/apply-template", h.WorkShift.ApplyTemplate)
			shifts.POST("/copy-last-week", h.WorkShift.CopyLastWeek)
			shifts.POST("/copy-last-month", h.WorkShift.CopyLastMonth)
			shifts.GET("/:id", h.WorkShift.Get)
			shifts.POST("", h.WorkShift.Create)
			shifts.PUT("/:id", h.WorkShift.Update)
			shifts.DELETE("/:id", h.WorkShift.Delete)
			shifts.POST("/:id/copy", h.WorkShift.Copy)
		}

		// 行事曆事件
		events := v1.Group("/events")
		{
			events.GET("", h.Event.List)
			events.GET("/:id", h.Event.Get)
			events.POST("", h.Event.Create)
			events.PUT("/:id", h.Event.Update)
			events.DELETE("/:id", h.Event.Delete)
		}

		// 薪資
		salary := v1.Group("/salary-records")
		{
			salary.GET("", h.Salary.List)
			salary.GET("/summary", h.Salary.Summary)
			salary.POST("/batch-delete", h.Salary.BatchDelete)
			salary.POST("/batch-rate", h.Salary.BatchUpdateRate)
			salary.POST("/import-shifts", h.Salary.ImportFromShifts)
			salary.POST("/import-workbook", importLimit, h.Salary.ImportWorkbook)
			salary.GET("/:id", h.Salary.Get)
			salary.POST("", h.Salary.Create)
			salary.PUT("/:id", h.Salary.Update)
			salary.DELETE("/:id", h.Salary.Delete)
		}

		// 生活費
		allowance := v1.Group("/allowance-records")
		{
			allowance.GET("", h.Allowance.List)
			allowance.GET("/:id", h.Allowance.Get)
			allowance.GET("/:id/copy-text", h.Allowance.CopyText)
			allowance.POST("", h.Allowance.Create)
			allowance.PUT("/:id", h.Allowance.Update)
			allowance.DELETE("/:id", h.Allowance.Delete)
		}
		sourceTypes := v1.Group("/allowance-source-types")
		{
			sourceTypes.GET("", h.Allowance.SourceTypes)
			sourceTypes.POST("", h.Allowance.AddSourceType)
			sourceTypes.DELETE("/:name", h.Allowance.DeleteSourceType)
		}

		// 遊戲攻略
		guides := v1.Group("/game-guides")
		{
			guides.GET("", h.GameGuide.List)
			guides.GET("/progress", h.GameGuide.Progress)
			guides.GET("/versions", h.GameGuide.Versions)
			guides.GET("/games", h.GameGuide.GameIDs)
			guides.GET("/:id", h.GameGuide.Get)
			guides.POST("", h.GameGuide.Create)
			guides.PUT("/:id", h.GameGuide.Update)
			guides.DELETE("/:id", h.GameGuide.Delete)
			guides.POST("/:id/toggle", h.GameGuide.ToggleCompleted)
		}

		// 課程筆記
		notes := v1.Group("/course-notes")
		{
			notes.GET("", h.CourseNote.List)
			notes.GET("/upcoming", h.CourseNote.Upcoming)
			notes.GET("/:id", h.CourseNote.Get)
			notes.POST("", h.CourseNote.Create)
			notes.PUT("/:id", h.CourseNote.Update)
			notes.DELETE("/:id", h.CourseNote.Delete)
			notes.POST("/:id/toggle", h.CourseNote.ToggleCompleted)
		}

		// 月曆與首頁
		v1.GET("/calendar", h.Calendar.MonthView)
		v1.GET("/dashboard", h.Calendar.Dashboard)

		// 匯出
		export := v1.Group("/export")
		{
			export.GET("/ics/:kind", h.Export.ICS)
			export.GET("/csv/:kind", h.Export.CSV)
			export.GET("/xlsx/:kind", h.Export.Workbook)
			export.GET("/pdf/salary", h.Export.SalaryPDF)
		}

		// 備份與還原
		bk := v1.Group("/backup")
		{
			bk.GET("", h.Backup.Export)
			bk.POST("/validate", h.Backup.Validate)
			bk.POST("/import", importLimit, h.Backup.Import)
		}

		// 即時快照
		if cfg.Feature.LiveStreamEnabled {
			v1.GET("/stream/:collection", h.Stream.Stream)
		}
	}

	return r
}
