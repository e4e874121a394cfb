package dto

// ── 反馈模块 DTO ──

// CreateReportRequest 提交反馈（来自 /report 指令）
type CreateReportRequest struct {
	DiscordUserID   string `json:"discordUserId"`
	DiscordUsername string `json:"discordUsername"`
	ReportType      string `json:"reportType"`
	Content         string `json:"content"`
}

// UpdateReportStatusRequest 管理端修改反馈状态
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved dismissed"`
}
