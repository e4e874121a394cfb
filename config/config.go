package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	Invite   InviteConfig   `mapstructure:"invite"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DiscordConfig Discord 机器人与 OAuth2 配置
type DiscordConfig struct {
	BotToken      string      `mapstructure:"bot_token"`
	GuildID       string      `mapstructure:"guild_id"`
	VerifyChannel string      `mapstructure:"verify_channel"` // /request-access 仅在此频道可用（按频道名匹配）
	AdminRoleID   string      `mapstructure:"admin_role_id"`
	AdminUserIDs  []string    `mapstructure:"admin_user_ids"`
	OAuth         OAuthConfig `mapstructure:"oauth"`
}

// OAuthConfig Discord OAuth2 登录配置
type OAuthConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURL  string        `mapstructure:"redirect_url"`
	StateSecret  string        `mapstructure:"state_secret"`
	StateTTL     time.Duration `mapstructure:"state_ttl"`
}

// InviteConfig 邀请码发放策略配置
type InviteConfig struct {
	Cooldown    time.Duration `mapstructure:"cooldown"`     // 同一 Discord 用户两次领取之间的最短间隔
	MaxAttempts int           `mapstructure:"max_attempts"` // 生成唯一邀请码的最大重试次数
	BulkMax     int           `mapstructure:"bulk_max"`     // /generate-bulk 单次上限
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "invite_gate")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("discord.verify_channel", "verify")
	v.SetDefault("discord.oauth.redirect_url", "http://localhost:8080/api/discord/callback")
	v.SetDefault("discord.oauth.state_ttl", "10m")

	// 历史部署中同时出现过 1h 与 24h 两种冷却窗口，按配置项处理，默认取 1h
	v.SetDefault("invite.cooldown", "1h")
	v.SetDefault("invite.max_attempts", 100)
	v.SetDefault("invite.bulk_max", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("GATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Invite.Cooldown <= 0 {
		return fmt.Errorf("配置校验失败: invite.cooldown 必须大于 0")
	}
	if c.Invite.MaxAttempts <= 0 {
		return fmt.Errorf("配置校验失败: invite.max_attempts 必须大于 0")
	}
	if c.Invite.BulkMax <= 0 || c.Invite.BulkMax > 50 {
		return fmt.Errorf("配置校验失败: invite.bulk_max 必须在 1-50 之间")
	}
	if c.Discord.OAuth.ClientID != "" && c.Discord.OAuth.StateSecret == "" {
		return fmt.Errorf("配置校验失败: 启用 OAuth 时 discord.oauth.state_secret 不能为空")
	}
	return nil
}
