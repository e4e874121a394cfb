package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/response"
)

// AdminGate 管理端路由守卫
// 调用方通过 discordUserId 查询参数声明身份，与配置的管理员白名单比对。
// 名单来自配置而非代码。
func AdminGate(adminUserIDs []string) gin.HandlerFunc {
	admins := make(map[string]bool, len(adminUserIDs))
	for _, id := range adminUserIDs {
		admins[id] = true
	}

	return func(c *gin.Context) {
		callerID := c.Query("discordUserId")
		if callerID == "" {
			response.Unauthorized(c, "Missing discordUserId.")
			c.Abort()
			return
		}
		if !admins[callerID] {
			response.Forbidden(c, "Admin access required.")
			c.Abort()
			return
		}
		c.Next()
	}
}
