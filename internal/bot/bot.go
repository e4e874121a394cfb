package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
)

// Bot Discord 机器人服务对象
// 显式持有会话与生命周期（Start/Stop），配置注入，不依赖包级全局状态
type Bot struct {
	cfg       *config.DiscordConfig
	inviteSvc service.InviteService
	reportSvc service.ReportService
	logger    *zap.Logger

	session    *discordgo.Session
	registered []*discordgo.ApplicationCommand
}

// New 创建 Bot 实例（不建立连接）
func New(cfg *config.DiscordConfig, inviteSvc service.InviteService, reportSvc service.ReportService, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("创建 Discord 会话失败: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		cfg:       cfg,
		inviteSvc: inviteSvc,
		reportSvc: reportSvc,
		logger:    logger,
		session:   session,
	}, nil
}

// Start 建立网关连接并注册斜杠指令
func (b *Bot) Start() error {
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("连接 Discord 网关失败: %w", err)
	}

	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.cfg.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("注册指令 %s 失败: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	b.logger.Info("Discord 机器人已启动",
		zap.String("guild_id", b.cfg.GuildID),
		zap.Int("commands", len(b.registered)),
	)
	return nil
}

// Stop 注销指令并关闭网关连接
func (b *Bot) Stop() error {
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.cfg.GuildID, cmd.ID); err != nil {
			// 注销失败不阻塞关闭
			b.logger.Warn("注销指令失败", zap.String("command", cmd.Name), zap.Error(err))
		}
	}
	return b.session.Close()
}
