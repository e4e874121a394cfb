package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// SessionService 会话签发业务接口
// 纯追加：本身不做任何校验，调用方（兑换、OAuth 回调）负责确认签发是正当的
type SessionService interface {
	Issue(ctx context.Context, inviteCodeID *string, userAgent string, discordUserID, discordUsername *string) (*model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
}

type sessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *sessionService) Issue(ctx context.Context, inviteCodeID *string, userAgent string, discordUserID, discordUsername *string) (*model.Session, error) {
	session := &model.Session{
		InviteCodeID:    inviteCodeID,
		AccessTime:      s.now(),
		DiscordUserID:   discordUserID,
		DiscordUsername: discordUsername,
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("创建会话失败", zap.Error(err))
		return nil, err
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context) ([]model.Session, error) {
	return s.repo.Session.List(ctx)
}
