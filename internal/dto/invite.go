package dto

import "time"

// ── 邀请码模块 DTO ──

// ValidateInviteRequest 兑换邀请码请求
type ValidateInviteRequest struct {
	Code string `json:"code"`
}

// SessionResponse 兑换成功后返回给客户端的会话凭证
// 客户端持久化保存并在后续访问中回放
type SessionResponse struct {
	ID              string    `json:"id"`
	AccessTime      time.Time `json:"accessTime"`
	DiscordUsername string    `json:"discordUsername,omitempty"`
}

// CodeStatsResponse 邀请码使用统计
type CodeStatsResponse struct {
	Total        int64   `json:"total"`
	Used         int64   `json:"used"`
	Available    int64   `json:"available"`
	UsagePercent float64 `json:"usagePercent"` // used/total，total 为 0 时取 0
}
