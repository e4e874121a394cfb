package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/api/handler"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/api/middleware"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 邀请码兑换：限流抑制在线枚举
		api.POST("/validate-invite",
			middleware.RateLimit(rdb, 10, time.Minute),
			h.Invite.ValidateInvite,
		)

		// 仪表盘读取
		api.GET("/sessions", h.Session.ListSessions)
		api.GET("/reports", h.Report.ListReports)
		api.GET("/stats", h.Invite.Stats)

		// Discord OAuth2 免码登录
		api.GET("/discord/login", h.OAuth.Login)
		api.GET("/discord/callback", h.OAuth.Callback)

		// 管理端
		admin := api.Group("/admin")
		{
			admin.GET("/check", h.Admin.Check)

			gated := admin.Group("")
			gated.Use(middleware.AdminGate(cfg.Discord.AdminUserIDs))
			{
				gated.GET("/users", h.Admin.ListUsers)
				gated.GET("/export", h.Admin.Export)
				gated.PATCH("/reports/:id/status", h.Report.UpdateReportStatus)
			}
		}
	}

	return r
}
