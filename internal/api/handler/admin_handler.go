package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/response"
)

// AdminHandler 管理端 HTTP 处理器
type AdminHandler struct {
	admins    map[string]bool
	userSvc   service.UserService
	exportSvc service.ExportService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(cfg *config.Config, userSvc service.UserService, exportSvc service.ExportService) *AdminHandler {
	admins := make(map[string]bool, len(cfg.Discord.AdminUserIDs))
	for _, id := range cfg.Discord.AdminUserIDs {
		admins[id] = true
	}
	return &AdminHandler{
		admins:    admins,
		userSvc:   userSvc,
		exportSvc: exportSvc,
	}
}

// Check 查询某 Discord 身份是否为管理员
// GET /api/admin/check?discordUserId=
func (h *AdminHandler) Check(c *gin.Context) {
	id := c.Query("discordUserId")
	if id == "" {
		response.BadRequest(c, "Missing discordUserId.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": h.admins[id]})
}

// ListUsers 持久用户列表
// GET /api/admin/users?discordUserId= （AdminGate 校验调用方）
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Export 导出邀请码与会话数据
// GET /api/admin/export?discordUserId= （AdminGate 校验调用方）
func (h *AdminHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportAccessData(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}
