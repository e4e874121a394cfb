package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/response"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/state"
)

// OAuthHandler Discord OAuth2 免码登录 HTTP 处理器
type OAuthHandler struct {
	baseURL  string
	oauthSvc service.OAuthService
}

// NewOAuthHandler 创建 OAuthHandler
func NewOAuthHandler(cfg *config.Config, oauthSvc service.OAuthService) *OAuthHandler {
	return &OAuthHandler{
		baseURL:  cfg.Server.BaseURL,
		oauthSvc: oauthSvc,
	}
}

// Login 跳转到 Discord 授权页面
// GET /api/discord/login
func (h *OAuthHandler) Login(c *gin.Context) {
	authURL, err := h.oauthSvc.AuthURL(c.Query("returnTo"))
	if err != nil {
		response.InternalError(c)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback 处理 Discord 授权回调
// GET /api/discord/callback?code=&state=
// 失败统一以 error 查询参数重定向回前端，不暴露内部细节
func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "missing_code")
		return
	}

	session, err := h.oauthSvc.HandleCallback(c.Request.Context(), code, c.Query("state"), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, state.ErrStateInvalid), errors.Is(err, state.ErrStateExpired):
			h.redirectError(c, "invalid_state")
		case errors.Is(err, service.ErrTokenExchangeFailed):
			h.redirectError(c, "token_exchange_failed")
		case errors.Is(err, service.ErrUserFetchFailed):
			h.redirectError(c, "user_fetch_failed")
		case errors.Is(err, service.ErrNoPriorAccess):
			h.redirectError(c, "no_previous_access")
		default:
			h.redirectError(c, "server_error")
		}
		return
	}

	q := url.Values{}
	q.Set("sessionId", session.ID)
	c.Redirect(http.StatusTemporaryRedirect, h.baseURL+"/?"+q.Encode())
}

func (h *OAuthHandler) redirectError(c *gin.Context, code string) {
	q := url.Values{}
	q.Set("error", code)
	c.Redirect(http.StatusTemporaryRedirect, h.baseURL+"/?"+q.Encode())
}
