package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var exportHeader = []string{
	"id", "service_id", "customer_id", "professional_id", "service_status",
	"date_of_request", "date_of_accept_reject", "date_of_completion", "remarks",
}

// ExportResult describes a written export file
type ExportResult struct {
	ProfessionalID uint   `json:"professional_id"`
	Filename       string `json:"filename"`
	Location       string `json:"location"`
	Rows           int    `json:"rows"`
}

// ExportService writes a professional's completed requests to CSV and tells the admin where it is
type ExportService struct {
	db       *gorm.DB
	storage  FileStorage
	notifier Notifier
	adminTo  string
}

// NewExportService creates an export service. adminTo is passed as the notification recipient.
func NewExportService(db *gorm.DB, storage FileStorage, notifier Notifier, adminTo string) *ExportService {
	return &ExportService{db: db, storage: storage, notifier: notifier, adminTo: adminTo}
}

// ExportFilename returns the file name used for a professional's export
func ExportFilename(professionalID uint) string {
	return fmt.Sprintf("%d_closed_requests.csv", professionalID)
}

// CheckExportable fails with NotFound for an unknown professional and NoData when nothing is completed yet
func (s *ExportService) CheckExportable(ctx context.Context, professionalID uint) error {
	db := s.db.WithContext(ctx)

	var professionals int64
	if err := db.Model(&models.User{}).Where("id = ? AND role = ?", professionalID, models.RoleProfessional).Count(&professionals).Error; err != nil {
		return internalError("Failed to look up professional", err)
	}
	if professionals == 0 {
		return newError(KindNotFound, "PROFESSIONAL_NOT_FOUND", "Professional not found")
	}

	var completed int64
	err := db.Model(&models.ServiceRequest{}).
		Where("professional_id = ? AND service_status = ?", professionalID, models.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return internalError("Failed to count completed requests", err)
	}
	if completed == 0 {
		return noExportData(professionalID)
	}
	return nil
}

// Export writes <professional_id>_closed_requests.csv with one row per completed request.
// A failed admin notification is logged and does not fail the export.
func (s *ExportService) Export(ctx context.Context, professionalID uint) (*ExportResult, error) {
	var requests []models.ServiceRequest
	err := s.db.WithContext(ctx).
		Where("professional_id = ? AND service_status = ?", professionalID, models.StatusCompleted).
		Order("id").
		Find(&requests).Error
	if err != nil {
		return nil, internalError("Failed to load completed requests", err)
	}
	if len(requests) == 0 {
		return nil, noExportData(professionalID)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, internalError("Failed to write export", err)
	}
	for _, r := range requests {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.ServiceID), 10),
			strconv.FormatUint(uint64(r.CustomerID), 10),
			strconv.FormatUint(uint64(r.ProfessionalID), 10),
			r.ServiceStatus,
			formatExportTime(&r.DateOfRequest),
			formatExportTime(r.DateOfAcceptReject),
			formatExportTime(r.DateOfCompletion),
			r.Remarks,
		}
		if err := w.Write(record); err != nil {
			return nil, internalError("Failed to write export", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internalError("Failed to write export", err)
	}

	filename := ExportFilename(professionalID)
	location, err := s.storage.Save(ctx, filename, &buf, utils.ContentTypeFor(filename))
	if err != nil {
		return nil, &ServiceError{Kind: KindInternal, Code: "STORAGE_ERROR", Message: "Failed to store export", Err: err}
	}

	result := &ExportResult{ProfessionalID: professionalID, Filename: filename, Location: location, Rows: len(requests)}
	utils.GetLogger().Info("export written",
		zap.Uint("professional_id", professionalID),
		zap.String("location", location),
		zap.Int("rows", result.Rows))

	notice := Notification{
		To:      s.adminTo,
		Subject: "Service request export ready",
		Body:    fmt.Sprintf("Completed service requests of professional %d (%d rows) were exported to %s", professionalID, result.Rows, location),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		utils.GetLogger().Warn("failed to notify admin about export",
			zap.Uint("professional_id", professionalID),
			zap.Error(err))
	}
	return result, nil
}

func noExportData(professionalID uint) *ServiceError {
	return newError(KindNoData, "NO_DATA", fmt.Sprintf("Professional %d has no completed service requests to export", professionalID))
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
