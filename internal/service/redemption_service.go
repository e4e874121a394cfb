package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// ── 兑换模块业务错误 ──

var (
	// ErrCodeMalformed 提交的邀请码为空或超长
	ErrCodeMalformed = errors.New("邀请码格式无效")
	// ErrCodeNotFound 邀请码不存在
	ErrCodeNotFound = errors.New("邀请码不存在")
	// ErrCodeAlreadyUsed 邀请码已被兑换（终态，不可重试）
	ErrCodeAlreadyUsed = errors.New("邀请码已被使用")
)

// 提交的邀请码长度上限（XXXX-XXXX-XXXX 为 14 字符，留余量）
const maxCodeLength = 16

// RedemptionService 邀请码兑换业务接口
//
// 状态机：Unused → Used，终态，无过期状态——邀请码在被兑换前永久有效。
// 已用变迁通过仓储层的条件更新完成，两个并发兑换只有一个成功。
type RedemptionService interface {
	Redeem(ctx context.Context, code, userAgent string) (*model.Session, error)
}

type redemptionService struct {
	repo       *repository.Repository
	sessionSvc SessionService
	logger     *zap.Logger
	now        func() time.Time
}

// NewRedemptionService 创建 RedemptionService 实例
func NewRedemptionService(repo *repository.Repository, sessionSvc SessionService, logger *zap.Logger) RedemptionService {
	return &redemptionService{
		repo:       repo,
		sessionSvc: sessionSvc,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *redemptionService) Redeem(ctx context.Context, code, userAgent string) (*model.Session, error) {
	// 1. 归一化与校验：大写、去空白；空或超长直接拒绝
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" || len(normalized) > maxCodeLength {
		return nil, ErrCodeMalformed
	}

	// 2. 查询
	invite, err := s.repo.InviteCode.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		s.logger.Error("查询邀请码失败", zap.Error(err))
		return nil, err
	}

	// 3. 已用快速判定（最终判定在第 4 步的条件更新）
	if invite.IsUsed {
		return nil, ErrCodeAlreadyUsed
	}

	// 4. 原子变迁：两个并发兑换读到同一个未用状态时，只有一个能更新命中
	if err := s.repo.InviteCode.MarkUsed(ctx, invite.ID); err != nil {
		if errors.Is(err, repository.ErrCodeAlreadyUsed) {
			return nil, ErrCodeAlreadyUsed
		}
		s.logger.Error("标记邀请码已用失败", zap.Error(err))
		return nil, err
	}

	// 5. 签发会话，携带发码时绑定的 Discord 身份
	session, err := s.sessionSvc.Issue(ctx, &invite.ID, userAgent, invite.DiscordUserID, invite.DiscordUsername)
	if err != nil {
		return nil, err
	}

	// 6. 尽力而为的持久用户登记，失败不影响兑换结果
	if invite.DiscordUserID != nil {
		now := s.now()
		if err := s.repo.PersistentUser.Upsert(ctx, &model.PersistentUser{
			DiscordUserID:   *invite.DiscordUserID,
			DiscordUsername: invite.DiscordUsername,
			FirstAccessAt:   now,
			LastAccessAt:    now,
		}); err != nil {
			s.logger.Warn("持久用户登记失败",
				zap.String("discord_user_id", *invite.DiscordUserID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("邀请码兑换成功",
		zap.String("code", normalized),
		zap.String("session_id", session.ID),
	)
	return session, nil
}
