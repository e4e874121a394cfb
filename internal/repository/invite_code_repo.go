package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
)

// InviteCodeRepository 邀请码数据访问接口
type InviteCodeRepository interface {
	// Create 插入新邀请码；code 唯一约束冲突时返回 ErrDuplicateCode
	Create(ctx context.Context, code *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// MarkUsed 条件更新 is_used=false → true；已被使用（零行命中）时返回 ErrCodeAlreadyUsed
	MarkUsed(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountUsed(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]model.InviteCode, error)
}

type inviteCodeRepo struct {
	db *gorm.DB
}

// NewInviteCodeRepo 创建 InviteCodeRepository 实例
func NewInviteCodeRepo(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepo{db: db}
}

func (r *inviteCodeRepo) Create(ctx context.Context, code *model.InviteCode) error {
	err := r.db.WithContext(ctx).Create(code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

// GetByCode 根据邀请码字符串精确查询（调用方负责先归一化为大写）
func (r *inviteCodeRepo) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkUsed 原子化的已用状态变迁
// WHERE 携带 is_used=false 条件，两个并发兑换只有一个能命中行；
// 未命中与"已被使用"等价，调用方据此返回终态失败
func (r *inviteCodeRepo) MarkUsed(ctx context.Context, id string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCodeAlreadyUsed
	}
	return nil
}

func (r *inviteCodeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.InviteCode{}).Count(&n).Error
	return n, err
}

func (r *inviteCodeRepo) CountUsed(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("is_used = ?", true).
		Count(&n).Error
	return n, err
}

// List 按创建时间倒序返回全部邀请码（管理端导出用）
func (r *inviteCodeRepo) List(ctx context.Context) ([]model.InviteCode, error) {
	var codes []model.InviteCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}
