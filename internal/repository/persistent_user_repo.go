package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
)

// PersistentUserRepository 持久用户数据访问接口
type PersistentUserRepository interface {
	GetByDiscordID(ctx context.Context, discordUserID string) (*model.PersistentUser, error)
	// Upsert 首次写入或刷新 last_access_at / 用户名
	Upsert(ctx context.Context, user *model.PersistentUser) error
	List(ctx context.Context) ([]model.PersistentUser, error)
}

type persistentUserRepo struct {
	db *gorm.DB
}

// NewPersistentUserRepo 创建 PersistentUserRepository 实例
func NewPersistentUserRepo(db *gorm.DB) PersistentUserRepository {
	return &persistentUserRepo{db: db}
}

func (r *persistentUserRepo) GetByDiscordID(ctx context.Context, discordUserID string) (*model.PersistentUser, error) {
	var user model.PersistentUser
	err := r.db.WithContext(ctx).
		Where("discord_user_id = ?", discordUserID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *persistentUserRepo) Upsert(ctx context.Context, user *model.PersistentUser) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"discord_username", "last_access_at"}),
		}).
		Create(user).Error
}

// List 按首次访问时间倒序返回全部持久用户（管理端用户列表）
func (r *persistentUserRepo) List(ctx context.Context) ([]model.PersistentUser, error) {
	var users []model.PersistentUser
	err := r.db.WithContext(ctx).
		Order("first_access_at DESC").
		Find(&users).Error
	return users, err
}
