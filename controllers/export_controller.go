package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

// ExportRequestBody represents the request body for exporting a professional's closed requests
type ExportRequestBody struct {
	ProfessionalID uint `json:"professional_id" binding:"required"`
}

// ExportAccepted is returned when an export task has been queued
type ExportAccepted struct {
	TaskID         string `json:"task_id"`
	ProfessionalID uint   `json:"professional_id"`
	Filename       string `json:"filename"`
}

// exportService builds the export service from the configured storage and notifier
func exportService() *services.ExportService {
	return services.NewExportService(config.GetDB(), services.GetExportStorage(), services.GetChatNotifier(), config.GetConfig().AdminEmail)
}

// CreateExport handles POST /api/v1/admin/exports - queues a CSV export of completed requests
func CreateExport(c *gin.Context) {
	var req ExportRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := exportService().CheckExportable(ctx, req.ProfessionalID); err != nil {
		respondError(c, err)
		return
	}

	queue := services.GetTaskQueue()
	if queue == nil {
		respondErrorCode(c, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "Export queue is not configured")
		return
	}
	taskID, err := queue.EnqueueExport(ctx, req.ProfessionalID)
	if err != nil {
		utils.GetLogger().Error("failed to queue export", zap.Uint("professional_id", req.ProfessionalID), zap.Error(err))
		respondErrorCode(c, http.StatusInternalServerError, "QUEUE_ERROR", "Failed to queue export")
		return
	}

	respondSuccess(c, http.StatusAccepted, "Export started", ExportAccepted{
		TaskID:         taskID,
		ProfessionalID: req.ProfessionalID,
		Filename:       services.ExportFilename(req.ProfessionalID),
	})
}
