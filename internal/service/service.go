package service

import (
	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/state"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Invite     InviteService
	Redemption RedemptionService
	Session    SessionService
	User       UserService
	Report     ReportService
	OAuth      OAuthService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	stateMgr *state.Manager,
	logger *zap.Logger,
) *Service {
	sessionSvc := NewSessionService(repo, logger)
	return &Service{
		Invite:     NewInviteService(cfg, repo, logger),
		Redemption: NewRedemptionService(repo, sessionSvc, logger),
		Session:    sessionSvc,
		User:       NewUserService(repo, logger),
		Report:     NewReportService(repo, logger),
		OAuth:      NewOAuthService(&cfg.Discord.OAuth, repo, sessionSvc, stateMgr, logger),
		Export:     NewExportService(repo, logger),
	}
}
