package model

import "time"

// DiscordRequest 冷却台账 — 对应 discord_requests
// 每个 Discord 用户至多一行；created_at 在每次发放时刷新，
// 表示"最近一次发放时间"而非历史记录
type DiscordRequest struct {
	DiscordUserID string    `gorm:"type:varchar(32);primaryKey"        json:"discordUserId"`
	InviteCode    string    `gorm:"type:varchar(16);not null"          json:"inviteCode"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName 指定表名
func (DiscordRequest) TableName() string { return "discord_requests" }
