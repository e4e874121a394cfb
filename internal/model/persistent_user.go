package model

import "time"

// PersistentUser 持久用户表 — 对应 persistent_users
// 记录曾成功兑换过邀请码的 Discord 身份，支持后续免码 OAuth 登录
type PersistentUser struct {
	DiscordUserID   string    `gorm:"type:varchar(32);primaryKey"        json:"discordUserId"`
	DiscordUsername *string   `gorm:"type:varchar(100)"                  json:"discordUsername,omitempty"`
	FirstAccessAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"firstAccessAt"`
	LastAccessAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"lastAccessAt"`
}

// TableName 指定表名
func (PersistentUser) TableName() string { return "persistent_users" }
