package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/api/handler"
	"college-schedule/backend/internal/api/middleware"
)

// Setup создаёт движок Gin со всеми маршрутами.
// limiter может быть nil: тогда лимит загрузок не действует.
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.Limiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── Глобальные middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── Проверка состояния ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	window, err := time.ParseDuration(cfg.Server.UploadWindow)
	if err != nil || window <= 0 {
		window = time.Minute
	}
	uploadLimit := middleware.RateLimit(limiter, cfg.Server.UploadLimit, window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// Расписания групп и преподавателей
		schedule := v1.Group("/schedule")
		{
			schedule.GET("", h.Schedule.ListGroups)
			schedule.POST("", h.Schedule.UpsertGroup)
			schedule.GET("/groups/:group", h.Schedule.GetGroup)
			schedule.DELETE("/groups/:group", h.Schedule.DeleteGroup)
			schedule.POST("/upload", uploadLimit, h.Schedule.Upload)
			schedule.GET("/teacher", h.Schedule.TeacherSchedule)
		}

		// Звонки
		bell := v1.Group("/bell")
		{
			bell.GET("", h.Bell.Current)
			bell.POST("/upload", uploadLimit, h.Bell.UploadMain)
			bell.POST("/upload/special", uploadLimit, h.Bell.UploadOverride)
		}

		// Экспорт
		export := v1.Group("/export")
		{
			export.GET("/groups/:group/calendar", h.Export.GroupCalendar)
			export.GET("/teacher", h.Export.TeacherWorkbook)
		}
	}

	return r
}
