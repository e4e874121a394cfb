package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一响应约定：所有业务接口返回 {success, message, ...}，
// 额外字段（如 session）平铺在响应体顶层，与前端仪表盘约定一致。

// Success 200 成功响应，extra 中的键值并入响应体顶层
func Success(c *gin.Context, message string, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 业务失败响应
func Fail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"message": message,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// InternalError 500
// 内部错误不向调用方暴露实现细节，统一返回通用文案
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "An internal error occurred. Please try again later.")
}
