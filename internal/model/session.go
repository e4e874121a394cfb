package model

import "time"

// Session 会话表 — 对应 sessions
// 只追加的访问日志：每次成功兑换或 OAuth 登录恰好产生一行，创建后不再修改
type Session struct {
	ID              string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InviteCodeID    *string   `gorm:"type:uuid"                                      json:"inviteCodeId,omitempty"` // OAuth 免码登录时为空
	AccessTime      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"accessTime"`
	UserAgent       *string   `json:"userAgent,omitempty"`
	DiscordUserID   *string   `gorm:"type:varchar(32)"                               json:"discordUserId,omitempty"`
	DiscordUsername *string   `gorm:"type:varchar(100)"                              json:"discordUsername,omitempty"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }
