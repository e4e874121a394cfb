package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// ── 发放模块业务错误 ──

var (
	// ErrExhaustedAttempts 重试预算耗尽仍未找到无冲突邀请码
	// 视为系统容量信号而非用户错误，调用方应记录日志并返回通用失败
	ErrExhaustedAttempts = errors.New("生成唯一邀请码的重试次数已用尽")
	// ErrBulkCountInvalid 批量生成数量越界
	ErrBulkCountInvalid = errors.New("批量生成数量不在允许范围内")
)

// CooldownError 冷却未结束，携带可重试时间
type CooldownError struct {
	RetryAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("冷却未结束，%s 后可再次领取", time.Until(e.RetryAt).Round(time.Second))
}

// InviteService 邀请码发放业务接口
type InviteService interface {
	// IssueCode 为指定 Discord 用户发放一个新邀请码
	// 冷却窗口内重复领取返回 *CooldownError；成功后刷新冷却台账
	IssueCode(ctx context.Context, discordUserID, discordUsername string) (*model.InviteCode, error)
	// BulkGenerate 批量生成不绑定身份的邀请码
	// 中途失败时返回已成功生成的部分与错误，调用方据此报告部分成功
	BulkGenerate(ctx context.Context, count int) ([]model.InviteCode, error)
	// Stats 邀请码使用统计
	Stats(ctx context.Context) (*dto.CodeStatsResponse, error)
}

type inviteService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewInviteService 创建 InviteService 实例
func NewInviteService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) InviteService {
	return &inviteService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *inviteService) IssueCode(ctx context.Context, discordUserID, discordUsername string) (*model.InviteCode, error) {
	now := s.now()

	// 1. 冷却检查：台账行存在且在窗口内则拒绝
	last, err := s.repo.DiscordRequest.GetByUserID(ctx, discordUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询冷却台账失败", zap.Error(err))
		return nil, err
	}
	if last != nil {
		retryAt := last.CreatedAt.Add(s.cfg.Invite.Cooldown)
		if now.Before(retryAt) {
			return nil, &CooldownError{RetryAt: retryAt}
		}
	}

	// 2. 生成唯一邀请码
	invite, err := s.generateUnique(ctx, &discordUserID, &discordUsername)
	if err != nil {
		return nil, err
	}

	// 3. 刷新冷却台账（upsert：同一用户至多一行）
	if err := s.repo.DiscordRequest.Upsert(ctx, &model.DiscordRequest{
		DiscordUserID: discordUserID,
		InviteCode:    invite.Code,
		CreatedAt:     now,
	}); err != nil {
		s.logger.Error("刷新冷却台账失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("邀请码已发放",
		zap.String("discord_user_id", discordUserID),
		zap.String("code", invite.Code),
	)
	return invite, nil
}

func (s *inviteService) BulkGenerate(ctx context.Context, count int) ([]model.InviteCode, error) {
	if count < 1 || count > s.cfg.Invite.BulkMax {
		return nil, ErrBulkCountInvalid
	}

	created := make([]model.InviteCode, 0, count)
	for i := 0; i < count; i++ {
		invite, err := s.generateUnique(ctx, nil, nil)
		if err != nil {
			// 中止剩余迭代，返回已生成的部分
			s.logger.Error("批量生成中止",
				zap.Int("requested", count),
				zap.Int("created", len(created)),
				zap.Error(err),
			)
			return created, err
		}
		created = append(created, *invite)
	}
	return created, nil
}

func (s *inviteService) Stats(ctx context.Context) (*dto.CodeStatsResponse, error) {
	total, err := s.repo.InviteCode.Count(ctx)
	if err != nil {
		s.logger.Error("统计邀请码总数失败", zap.Error(err))
		return nil, err
	}
	used, err := s.repo.InviteCode.CountUsed(ctx)
	if err != nil {
		s.logger.Error("统计已用邀请码失败", zap.Error(err))
		return nil, err
	}

	var percent float64
	if total > 0 {
		percent = float64(used) / float64(total) * 100
	}

	return &dto.CodeStatsResponse{
		Total:        total,
		Used:         used,
		Available:    total - used,
		UsagePercent: percent,
	}, nil
}

// generateUnique 生成并落库一个不冲突的邀请码
// 先查重再插入；插入时的唯一约束冲突（并发竞争）同样按碰撞处理并重试，
// 重试预算耗尽返回 ErrExhaustedAttempts
func (s *inviteService) generateUnique(ctx context.Context, discordUserID, discordUsername *string) (*model.InviteCode, error) {
	for attempt := 0; attempt < s.cfg.Invite.MaxAttempts; attempt++ {
		code := GenerateCode()

		_, err := s.repo.InviteCode.GetByCode(ctx, code)
		if err == nil {
			// 碰撞，换一个
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询邀请码失败", zap.Error(err))
			return nil, err
		}

		invite := &model.InviteCode{
			Code:            code,
			DiscordUserID:   discordUserID,
			DiscordUsername: discordUsername,
			CreatedAt:       s.now(),
		}
		err = s.repo.InviteCode.Create(ctx, invite)
		if errors.Is(err, repository.ErrDuplicateCode) {
			// 查重与插入之间被并发抢先，视作碰撞重试
			continue
		}
		if err != nil {
			s.logger.Error("插入邀请码失败", zap.Error(err))
			return nil, err
		}
		return invite, nil
	}
	return nil, ErrExhaustedAttempts
}
