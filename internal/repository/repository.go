package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateCode 邀请码唯一约束冲突（并发生成的兜底信号，由上层捕获重试）
	ErrDuplicateCode = errors.New("邀请码已存在")
	// ErrCodeAlreadyUsed 条件更新未命中：邀请码已被使用
	ErrCodeAlreadyUsed = errors.New("邀请码已被使用")
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	InviteCode     InviteCodeRepository
	Session        SessionRepository
	DiscordRequest DiscordRequestRepository
	Report         ReportRepository
	PersistentUser PersistentUserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		InviteCode:     NewInviteCodeRepo(db),
		Session:        NewSessionRepo(db),
		DiscordRequest: NewDiscordRequestRepo(db),
		Report:         NewReportRepo(db),
		PersistentUser: NewPersistentUserRepo(db),
	}
}
