package handler

import (
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Invite  *InviteHandler
	Session *SessionHandler
	Report  *ReportHandler
	Admin   *AdminHandler
	OAuth   *OAuthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Invite:  NewInviteHandler(svc.Redemption, svc.Invite),
		Session: NewSessionHandler(svc.Session),
		Report:  NewReportHandler(svc.Report),
		Admin:   NewAdminHandler(cfg, svc.User, svc.Export),
		OAuth:   NewOAuthHandler(cfg, svc.OAuth),
	}
}
