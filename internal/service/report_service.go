package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// ── 反馈模块业务错误 ──

var (
	ErrReportTypeInvalid    = errors.New("反馈类型无效")
	ErrReportContentEmpty   = errors.New("反馈内容不能为空")
	ErrReportContentTooLong = errors.New("反馈内容超出长度限制")
	ErrReportNotFound       = errors.New("反馈不存在")
)

// 反馈内容长度上限
const maxReportContentLength = 1000

var validReportTypes = map[string]bool{
	model.ReportTypeBug:        true,
	model.ReportTypeUser:       true,
	model.ReportTypeGeneral:    true,
	model.ReportTypeSuggestion: true,
}

// ReportService 反馈业务接口
type ReportService interface {
	Create(ctx context.Context, req *dto.CreateReportRequest) (*model.Report, error)
	List(ctx context.Context) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, req *dto.CreateReportRequest) (*model.Report, error) {
	if !validReportTypes[req.ReportType] {
		return nil, ErrReportTypeInvalid
	}
	if req.Content == "" {
		return nil, ErrReportContentEmpty
	}
	if len(req.Content) > maxReportContentLength {
		return nil, ErrReportContentTooLong
	}

	report := &model.Report{
		DiscordUserID: req.DiscordUserID,
		Content:       req.Content,
		ReportType:    req.ReportType,
		Status:        "open",
		CreatedAt:     s.now(),
	}
	if req.DiscordUsername != "" {
		report.DiscordUsername = &req.DiscordUsername
	}

	if err := s.repo.Report.Create(ctx, report); err != nil {
		s.logger.Error("保存反馈失败", zap.Error(err))
		return nil, err
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context) ([]model.Report, error) {
	return s.repo.Report.List(ctx)
}

func (s *reportService) UpdateStatus(ctx context.Context, id, status string) error {
	err := s.repo.Report.UpdateStatus(ctx, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		s.logger.Error("更新反馈状态失败", zap.Error(err))
	}
	return err
}
