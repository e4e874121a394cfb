package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
)

// DiscordRequestRepository 冷却台账数据访问接口
type DiscordRequestRepository interface {
	GetByUserID(ctx context.Context, discordUserID string) (*model.DiscordRequest, error)
	// Upsert 写入或刷新台账行：每个用户至多一行，冲突时覆盖发放时间与邀请码
	Upsert(ctx context.Context, req *model.DiscordRequest) error
}

type discordRequestRepo struct {
	db *gorm.DB
}

// NewDiscordRequestRepo 创建 DiscordRequestRepository 实例
func NewDiscordRequestRepo(db *gorm.DB) DiscordRequestRepository {
	return &discordRequestRepo{db: db}
}

func (r *discordRequestRepo) GetByUserID(ctx context.Context, discordUserID string) (*model.DiscordRequest, error) {
	var req model.DiscordRequest
	err := r.db.WithContext(ctx).
		Where("discord_user_id = ?", discordUserID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *discordRequestRepo) Upsert(ctx context.Context, req *model.DiscordRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"invite_code", "created_at"}),
		}).
		Create(req).Error
}
