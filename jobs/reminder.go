package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunStats counts the outcome of one job run
type RunStats struct {
	Sent   int
	Failed int
}

type pendingRequest struct {
	ID               uint
	ProfessionalID   uint
	ProfessionalUser string
	ProfessionalName string
	ServiceName      string
	DateOfRequest    time.Time
}

// Reminder nudges professionals about requests they have not answered
type Reminder struct {
	db       *gorm.DB
	notifier services.Notifier
	timeout  time.Duration
}

// NewReminder creates the reminder job. Each delivery is bounded by timeout.
func NewReminder(db *gorm.DB, notifier services.Notifier, timeout time.Duration) *Reminder {
	return &Reminder{db: db, notifier: notifier, timeout: timeout}
}

// Run sends one message per request still in the requested state. Delivery failures are
// logged and skipped; an error is returned only when pending requests cannot be loaded.
func (r *Reminder) Run(ctx context.Context) (RunStats, error) {
	var pending []pendingRequest
	err := r.db.WithContext(ctx).Table("service_requests AS sr").
		Select(`sr.id, sr.professional_id, sr.date_of_request,
			COALESCE(u.username, '') AS professional_user,
			COALESCE(pp.full_name, '') AS professional_name,
			COALESCE(s.name, '') AS service_name`).
		Joins("LEFT JOIN users u ON u.id = sr.professional_id").
		Joins("LEFT JOIN professional_profiles pp ON pp.user_id = sr.professional_id").
		Joins("LEFT JOIN services s ON s.id = sr.service_id").
		Where("sr.service_status = ?", models.StatusRequested).
		Order("sr.id").
		Scan(&pending).Error
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to load pending requests: %w", err)
	}

	logger := utils.GetLogger()
	var stats RunStats
	for _, p := range pending {
		if err := r.send(ctx, p); err != nil {
			stats.Failed++
			logger.Warn("failed to send reminder", zap.Uint("request_id", p.ID), zap.Error(err))
			continue
		}
		stats.Sent++
	}

	logger.Info("pending request reminders sent", zap.Int("sent", stats.Sent), zap.Int("failed", stats.Failed))
	return stats, nil
}

func (r *Reminder) send(ctx context.Context, p pendingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name := p.ProfessionalName
	if name == "" {
		name = p.ProfessionalUser
	}
	return r.notifier.Notify(ctx, services.Notification{
		To:      p.ProfessionalUser,
		Subject: "Pending service request",
		Body: fmt.Sprintf("Hi %s, service request #%d for %s is waiting for you since %s. Please accept or reject it.",
			name, p.ID, p.ServiceName, p.DateOfRequest.Format("2006-01-02")),
	})
}
