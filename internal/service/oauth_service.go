package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/state"
)

// ── OAuth 模块业务错误 ──

var (
	// ErrNoPriorAccess Discord 身份从未兑换过邀请码，免码登录被拒绝
	ErrNoPriorAccess = errors.New("该 Discord 身份没有准入记录")
	// ErrTokenExchangeFailed 授权码换取 access token 失败
	ErrTokenExchangeFailed = errors.New("OAuth token 交换失败")
	// ErrUserFetchFailed 获取 Discord 用户信息失败
	ErrUserFetchFailed = errors.New("获取 Discord 用户信息失败")
)

const discordAPIBase = "https://discord.com/api"

// OAuthService Discord OAuth2 免码登录业务接口
//
// 仅持久用户（曾成功兑换过邀请码的身份）可以走此通道；
// 陌生身份不会被发码，只会收到 ErrNoPriorAccess。
type OAuthService interface {
	// AuthURL 构造 Discord 授权跳转地址，state 为带签名的一次性 token
	AuthURL(returnTo string) (string, error)
	// HandleCallback 处理授权回调：换 token → 取身份 → 校验准入记录 → 签发会话
	HandleCallback(ctx context.Context, code, stateToken, userAgent string) (*model.Session, error)
}

type oauthService struct {
	cfg        *config.OAuthConfig
	repo       *repository.Repository
	sessionSvc SessionService
	stateMgr   *state.Manager
	logger     *zap.Logger

	// 测试注入点
	httpClient *http.Client
	apiBase    string
	now        func() time.Time
}

// NewOAuthService 创建 OAuthService 实例
func NewOAuthService(cfg *config.OAuthConfig, repo *repository.Repository, sessionSvc SessionService, stateMgr *state.Manager, logger *zap.Logger) OAuthService {
	return &oauthService{
		cfg:        cfg,
		repo:       repo,
		sessionSvc: sessionSvc,
		stateMgr:   stateMgr,
		logger:     logger,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    discordAPIBase,
		now:        time.Now,
	}
}

func (s *oauthService) AuthURL(returnTo string) (string, error) {
	st, err := s.stateMgr.Generate(returnTo)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", s.cfg.ClientID)
	q.Set("redirect_uri", s.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "identify")
	q.Set("state", st)

	return s.apiBase + "/oauth2/authorize?" + q.Encode(), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, code, stateToken, userAgent string) (*model.Session, error) {
	// 1. 校验 state 签名，拦截伪造回调
	if _, err := s.stateMgr.Parse(stateToken); err != nil {
		return nil, err
	}

	// 2. 授权码换取 access token
	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// 3. 获取 Discord 身份
	user, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	// 4. 准入校验：必须存在持久用户记录，否则拒绝（不发新码）
	if _, err := s.repo.PersistentUser.GetByDiscordID(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPriorAccess
		}
		s.logger.Error("查询持久用户失败", zap.Error(err))
		return nil, err
	}

	// 5. 刷新最近访问时间（尽力而为）
	now := s.now()
	if err := s.repo.PersistentUser.Upsert(ctx, &model.PersistentUser{
		DiscordUserID:   user.ID,
		DiscordUsername: &user.Username,
		FirstAccessAt:   now,
		LastAccessAt:    now,
	}); err != nil {
		s.logger.Warn("刷新持久用户失败", zap.Error(err))
	}

	// 6. 签发会话（无邀请码关联）
	session, err := s.sessionSvc.Issue(ctx, nil, userAgent, &user.ID, &user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("OAuth 免码登录成功",
		zap.String("discord_user_id", user.ID),
		zap.String("session_id", session.ID),
	)
	return session, nil
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// exchangeCode 标准 authorization_code 交换
func (s *oauthService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("OAuth token 请求失败", zap.Error(err))
		return "", ErrTokenExchangeFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("OAuth token 交换被拒绝", zap.Int("status", resp.StatusCode))
		return "", ErrTokenExchangeFailed
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		return "", ErrTokenExchangeFailed
	}
	return body.AccessToken, nil
}

func (s *oauthService) fetchUser(ctx context.Context, accessToken string) (*discordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("获取 Discord 用户信息请求失败", zap.Error(err))
		return nil, ErrUserFetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("获取 Discord 用户信息被拒绝", zap.Int("status", resp.StatusCode))
		return nil, ErrUserFetchFailed
	}

	var user discordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil || user.ID == "" {
		return nil, ErrUserFetchFailed
	}
	return &user, nil
}
