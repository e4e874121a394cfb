package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/response"
)

// InviteHandler 邀请码模块 HTTP 处理器
type InviteHandler struct {
	redemptionSvc service.RedemptionService
	inviteSvc     service.InviteService
}

// NewInviteHandler 创建 InviteHandler
func NewInviteHandler(redemptionSvc service.RedemptionService, inviteSvc service.InviteService) *InviteHandler {
	return &InviteHandler{redemptionSvc: redemptionSvc, inviteSvc: inviteSvc}
}

// ValidateInvite 兑换邀请码
// POST /api/validate-invite
func (h *InviteHandler) ValidateInvite(c *gin.Context) {
	var req dto.ValidateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Please provide a valid invite code.")
		return
	}

	session, err := h.redemptionSvc.Redeem(c.Request.Context(), req.Code, c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeMalformed):
			response.BadRequest(c, "Please provide a valid invite code.")
		case errors.Is(err, service.ErrCodeNotFound):
			response.Fail(c, http.StatusNotFound, "Invalid invite code.")
		case errors.Is(err, service.ErrCodeAlreadyUsed):
			response.Fail(c, http.StatusConflict, "This invite code has already been used.")
		default:
			response.InternalError(c)
		}
		return
	}

	resp := dto.SessionResponse{
		ID:         session.ID,
		AccessTime: session.AccessTime,
	}
	if session.DiscordUsername != nil {
		resp.DiscordUsername = *session.DiscordUsername
	}

	response.Success(c, "Invite code accepted.", gin.H{"session": resp})
}

// Stats 邀请码使用统计
// GET /api/stats
func (h *InviteHandler) Stats(c *gin.Context) {
	stats, err := h.inviteSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
