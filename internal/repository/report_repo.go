package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
)

// ReportRepository 反馈数据访问接口
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	List(ctx context.Context) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// List 按提交时间倒序返回全部反馈
func (r *reportRepo) List(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
