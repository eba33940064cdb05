package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DanilPOW/MonthProject/config"
	"github.com/DanilPOW/MonthProject/internal/api/handler"
	"github.com/DanilPOW/MonthProject/internal/api/middleware"
	"github.com/DanilPOW/MonthProject/pkg/jwt"
	"github.com/DanilPOW/MonthProject/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/注册限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 训练营模块
			tracks := authorized.Group("/tracks")
			{
				tracks.POST("", h.Track.Create)
				tracks.GET("", h.Track.List)
				tracks.GET("/my", h.Track.ListMy)
				tracks.GET("/:id", h.Track.Get)
				tracks.POST("/:id/enroll", h.Track.Enroll)
				tracks.DELETE("/:id/enroll", h.Track.Unenroll)

				// 作业进度
				tracks.GET("/:id/assignments", h.Assignment.ListWithStatus)
				tracks.GET("/:id/assignments/current", h.Assignment.Current)

				// 评审结果导出
				tracks.GET("/:id/export/reviews", h.Export.ExportReviewResults)
			}

			// 作业模块
			assignments := authorized.Group("/assignments")
			{
				assignments.POST("/:id/submissions", h.Assignment.Submit)
				assignments.POST("/:id/reviews/pick", h.Review.Pick)
				assignments.POST("/:id/diary", h.Diary.Create)
				assignments.GET("/:id/diary", h.Diary.List)
			}

			// 评审模块
			authorized.POST("/submissions/:id/reviews", h.Review.Create)

			// 通知模块
			authorized.GET("/notifications", h.Notification.List)
			authorized.POST("/notifications/sweep", h.Notification.Sweep)

			// 日历订阅
			authorized.GET("/calendar/deadlines.ics", h.Calendar.DeadlineFeed)
		}
	}

	return r
}
