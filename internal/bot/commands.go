package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
)

// commandDefinitions 注册到服务器的斜杠指令
func commandDefinitions() []*discordgo.ApplicationCommand {
	var (
		minCount = float64(1)
		maxCount = float64(50)
	)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "request-access",
			Description: "Request an invite code (delivered via DM)",
		},
		{
			Name:        "generate-bulk",
			Description: "Generate a batch of invite codes (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "Number of codes to generate (1-50)",
					Required:    true,
					MinValue:    &minCount,
					MaxValue:    maxCount,
				},
			},
		},
		{
			Name:        "code-stats",
			Description: "Show invite code usage statistics (admin only)",
		},
		{
			Name:        "report",
			Description: "Submit a report or feedback",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Report category",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Bug", Value: "bug"},
						{Name: "User", Value: "user"},
						{Name: "General", Value: "general"},
						{Name: "Suggestion", Value: "suggestion"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "content",
					Description: "What happened? (max 1000 characters)",
					Required:    true,
				},
			},
		},
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "request-access":
		b.handleRequestAccess(s, i)
	case "generate-bulk":
		b.handleGenerateBulk(s, i)
	case "code-stats":
		b.handleCodeStats(s, i)
	case "report":
		b.handleReport(s, i)
	}
}

// ── /request-access ──

func (b *Bot) handleRequestAccess(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// 仅允许在指定频道使用
	channel, err := s.State.Channel(i.ChannelID)
	if err != nil {
		channel, err = s.Channel(i.ChannelID)
	}
	if err != nil || channel.Name != b.cfg.VerifyChannel {
		b.respondEphemeral(s, i, fmt.Sprintf("This command can only be used in the #%s channel.", b.cfg.VerifyChannel))
		return
	}

	user := interactionUser(i)
	if user == nil {
		b.respondEphemeral(s, i, "Could not identify you. Please try again.")
		return
	}

	invite, err := b.inviteSvc.IssueCode(context.Background(), user.ID, user.Username)
	if err != nil {
		var cooldown *service.CooldownError
		switch {
		case errors.As(err, &cooldown):
			b.respondEphemeral(s, i, fmt.Sprintf(
				"You already received a code recently. Try again in %s.",
				formatWait(time.Until(cooldown.RetryAt)),
			))
		default:
			b.logger.Error("发放邀请码失败", zap.String("discord_user_id", user.ID), zap.Error(err))
			b.respondEphemeral(s, i, "Something went wrong while issuing your code. Please try again later.")
		}
		return
	}

	// 优先私信送达，DM 关闭时回退为仅自己可见的频道回复
	if b.deliverByDM(s, user.ID, invite.Code) {
		b.respondEphemeral(s, i, "Check your DMs — your invite code is on its way.")
		return
	}
	b.respondEphemeral(s, i, fmt.Sprintf(
		"I couldn't DM you (are your DMs disabled?). Here is your invite code: `%s`",
		invite.Code,
	))
}

func (b *Bot) deliverByDM(s *discordgo.Session, userID, code string) bool {
	dm, err := s.UserChannelCreate(userID)
	if err != nil {
		return false
	}
	msg := fmt.Sprintf("Here is your invite code: `%s`\nIt is single-use — redeem it on the dashboard.", code)
	if _, err := s.ChannelMessageSend(dm.ID, msg); err != nil {
		return false
	}
	return true
}

// ── /generate-bulk ──

func (b *Bot) handleGenerateBulk(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.callerIsAdmin(i) {
		b.respondEphemeral(s, i, "You need admin permissions to use this command.")
		return
	}

	count := int(i.ApplicationCommandData().Options[0].IntValue())
	created, err := b.inviteSvc.BulkGenerate(context.Background(), count)
	if err != nil {
		if errors.Is(err, service.ErrBulkCountInvalid) {
			b.respondEphemeral(s, i, "Count must be between 1 and 50.")
			return
		}
		// 部分成功：报告已生成的数量
		b.logger.Error("批量生成失败", zap.Int("requested", count), zap.Int("created", len(created)), zap.Error(err))
		b.respondEphemeral(s, i, fmt.Sprintf(
			"Generated %d of %d codes before an error occurred. Please try again for the rest.",
			len(created), count,
		))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated %d invite codes:\n```\n", len(created))
	for _, c := range created {
		sb.WriteString(c.Code)
		sb.WriteByte('\n')
	}
	sb.WriteString("```")
	b.respondEphemeral(s, i, sb.String())
}

// ── /code-stats ──

func (b *Bot) handleCodeStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.callerIsAdmin(i) {
		b.respondEphemeral(s, i, "You need admin permissions to use this command.")
		return
	}

	stats, err := b.inviteSvc.Stats(context.Background())
	if err != nil {
		b.logger.Error("查询邀请码统计失败", zap.Error(err))
		b.respondEphemeral(s, i, "Could not fetch stats right now. Please try again later.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf(
		"**Invite code stats**\nTotal: %d\nUsed: %d\nAvailable: %d\nUsage: %.1f%%",
		stats.Total, stats.Used, stats.Available, stats.UsagePercent,
	))
}

// ── /report ──

func (b *Bot) handleReport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		b.respondEphemeral(s, i, "Could not identify you. Please try again.")
		return
	}

	data := i.ApplicationCommandData()
	req := &dto.CreateReportRequest{
		DiscordUserID:   user.ID,
		DiscordUsername: user.Username,
	}
	for _, opt := range data.Options {
		switch opt.Name {
		case "type":
			req.ReportType = opt.StringValue()
		case "content":
			req.Content = opt.StringValue()
		}
	}

	if _, err := b.reportSvc.Create(context.Background(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrReportContentTooLong):
			b.respondEphemeral(s, i, "Your report is too long — please keep it under 1000 characters.")
		case errors.Is(err, service.ErrReportContentEmpty), errors.Is(err, service.ErrReportTypeInvalid):
			b.respondEphemeral(s, i, "Invalid report. Please choose a type and describe the issue.")
		default:
			b.logger.Error("保存反馈失败", zap.String("discord_user_id", user.ID), zap.Error(err))
			b.respondEphemeral(s, i, "Could not submit your report right now. Please try again later.")
		}
		return
	}

	b.respondEphemeral(s, i, "Thanks — your report has been submitted.")
}

// ── 辅助 ──

// callerIsAdmin 管理员判定：服务器 Administrator 权限、配置的管理员角色
// 或配置的管理员用户名单，三者任一命中即可
func (b *Bot) callerIsAdmin(i *discordgo.InteractionCreate) bool {
	user := interactionUser(i)
	if user == nil || i.Member == nil {
		return false
	}
	return isAdmin(i.Member.Roles, i.Member.Permissions, user.ID, b.cfg.AdminRoleID, b.cfg.AdminUserIDs)
}

func isAdmin(roles []string, permissions int64, userID, adminRoleID string, adminUserIDs []string) bool {
	if permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if adminRoleID != "" {
		for _, r := range roles {
			if r == adminRoleID {
				return true
			}
		}
	}
	for _, id := range adminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// interactionUser 取触发者：服务器内走 Member.User，私信场景走 User
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// formatWait 将剩余等待时间化为对用户友好的粒度
func formatWait(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("回复交互失败", zap.Error(err))
	}
}
