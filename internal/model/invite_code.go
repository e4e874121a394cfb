package model

import "time"

// InviteCode 邀请码表 — 对应 invite_codes
// code 全局唯一；is_used 只会发生一次 false → true 的变迁，之后永不可再兑换
type InviteCode struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code            string     `gorm:"type:varchar(16);not null;uniqueIndex:idx_invite_codes_code" json:"code"`
	IsUsed          bool       `gorm:"not null;default:false"                         json:"isUsed"`
	UsedAt          *time.Time `json:"usedAt,omitempty"`
	DiscordUserID   *string    `gorm:"type:varchar(32)"                               json:"discordUserId,omitempty"`
	DiscordUsername *string    `gorm:"type:varchar(100)"                              json:"discordUsername,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName 指定表名
func (InviteCode) TableName() string { return "invite_codes" }
