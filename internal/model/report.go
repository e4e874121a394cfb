package model

import "time"

// 反馈类型
const (
	ReportTypeBug        = "bug"
	ReportTypeUser       = "user"
	ReportTypeGeneral    = "general"
	ReportTypeSuggestion = "suggestion"
)

// Report 反馈表 — 对应 reports
type Report struct {
	ID              string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DiscordUserID   string    `gorm:"type:varchar(32);not null"                      json:"discordUserId"`
	DiscordUsername *string   `gorm:"type:varchar(100)"                              json:"discordUsername,omitempty"`
	Content         string    `gorm:"type:text;not null"                             json:"content"`
	ReportType      string    `gorm:"type:varchar(20);not null"                      json:"reportType"`
	Status          string    `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }
