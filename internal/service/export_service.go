package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 管理端导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportAccessData 导出邀请码与会话两个 Sheet 的 .xlsx
	ExportAccessData(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *exportService) ExportAccessData(ctx context.Context) (*bytes.Buffer, string, error) {
	codes, err := s.repo.InviteCode.List(ctx)
	if err != nil {
		s.logger.Error("查询邀请码列表失败", zap.Error(err))
		return nil, "", err
	}
	sessions, err := s.repo.Session.List(ctx)
	if err != nil {
		s.logger.Error("查询会话列表失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeCodesSheet(f, codes); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	if err := s.writeSessionsSheet(f, sessions); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	// 删除 excelize 默认创建的 Sheet1
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("access-data-%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) writeCodesSheet(f *excelize.File, codes []model.InviteCode) error {
	const sheet = "Invite Codes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Code", "Used", "Used At", "Discord User", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, c := range codes {
		used := "no"
		usedAt := ""
		if c.IsUsed {
			used = "yes"
			if c.UsedAt != nil {
				usedAt = c.UsedAt.Format(time.RFC3339)
			}
		}
		discord := ""
		if c.DiscordUsername != nil {
			discord = *c.DiscordUsername
		}

		values := []interface{}{c.Code, used, usedAt, discord, c.CreatedAt.Format(time.RFC3339)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *exportService) writeSessionsSheet(f *excelize.File, sessions []model.Session) error {
	const sheet = "Sessions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Session ID", "Access Time", "Discord User", "User Agent"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, sess := range sessions {
		discord := ""
		if sess.DiscordUsername != nil {
			discord = *sess.DiscordUsername
		}
		ua := ""
		if sess.UserAgent != nil {
			ua = *sess.UserAgent
		}

		values := []interface{}{sess.ID, sess.AccessTime.Format(time.RFC3339), discord, ua}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
