package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/api/handler"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/api/router"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/bot"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/database"
	applogger "github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/logger"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/redis"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/state"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，限流功能不可用）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，接口限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 OAuth state 签发器
	stateMgr := state.NewManager(&cfg.Discord.OAuth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, stateMgr, logger)
	h := handler.NewHandler(cfg, svc)

	// 7. 启动 Discord 机器人（未配置 Token 时仅提供 HTTP 端）
	var discordBot *bot.Bot
	if cfg.Discord.BotToken != "" {
		discordBot, err = bot.New(&cfg.Discord, svc.Invite, svc.Report, logger)
		if err != nil {
			logger.Fatal("初始化 Discord 机器人失败", zap.Error(err))
		}
		if err := discordBot.Start(); err != nil {
			logger.Fatal("启动 Discord 机器人失败", zap.Error(err))
		}
	} else {
		logger.Warn("未配置 Discord Bot Token，机器人功能不可用")
	}

	// 8. 初始化路由并启动 HTTP 服务器（优雅关闭）
	engine := router.Setup(cfg, h, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 注销斜杠指令并断开 Discord 连接
	if discordBot != nil {
		if err := discordBot.Stop(); err != nil {
			logger.Error("关闭 Discord 机器人异常", zap.Error(err))
		}
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
