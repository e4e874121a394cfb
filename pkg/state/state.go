package state

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
)

var (
	ErrStateExpired = errors.New("state 已过期")
	ErrStateInvalid = errors.New("state 无效")
)

// Claims OAuth2 state 参数的签名声明
// 携带登录发起时的回跳地址，防止回调被跨站伪造
type Claims struct {
	ReturnTo string `json:"return_to,omitempty"`
	jwtv5.RegisteredClaims
}

// Manager OAuth2 state 签发与校验
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建 state 管理器
func NewManager(cfg *config.OAuthConfig) *Manager {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Manager{
		secret: []byte(cfg.StateSecret),
		ttl:    ttl,
	}
}

// Generate 签发一次性 state token
func (m *Manager) Generate(returnTo string) (string, error) {
	now := time.Now()
	claims := Claims{
		ReturnTo: returnTo,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "invite-gate",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 解析并验证 state token
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrStateInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrStateExpired
		}
		return nil, ErrStateInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrStateInvalid
	}

	return claims, nil
}
