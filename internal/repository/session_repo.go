package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
)

// SessionRepository 会话数据访问接口（只追加，无更新删除）
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	List(ctx context.Context) ([]model.Session, error)
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// List 按访问时间倒序返回全部会话
func (r *sessionRepo) List(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Order("access_time DESC").
		Find(&sessions).Error
	return sessions, err
}
