package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/pkg/response"
)

// ReportHandler 反馈模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ListReports 反馈列表
// GET /api/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reportSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// UpdateReportStatus 管理端修改反馈状态
// PATCH /api/admin/reports/:id/status
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid status value.")
		return
	}

	if err := h.reportSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			response.NotFound(c, "Report not found.")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, "Report status updated.", nil)
}
