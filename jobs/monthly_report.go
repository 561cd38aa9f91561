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

// CustomerActivity is one customer's completed work in a reporting period
type CustomerActivity struct {
	CustomerID uint
	Username   string
	FullName   string
	Completed  int64
	TotalSpent float64
}

// MonthlyReport emails every customer a summary of the previous calendar month
type MonthlyReport struct {
	db       *gorm.DB
	notifier services.Notifier
	timeout  time.Duration
	now      func() time.Time
}

// NewMonthlyReport creates the monthly report job. Each delivery is bounded by timeout.
func NewMonthlyReport(db *gorm.DB, notifier services.Notifier, timeout time.Duration) *MonthlyReport {
	return &MonthlyReport{db: db, notifier: notifier, timeout: timeout, now: time.Now}
}

// ReportPeriod returns the UTC calendar month before now as [start, end)
func ReportPeriod(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, -1, 0), end
}

// Run reports to every customer profile, including customers with nothing completed.
// A failed delivery is logged and the run continues with the next customer.
func (m *MonthlyReport) Run(ctx context.Context) (RunStats, error) {
	start, end := ReportPeriod(m.now())

	var customers []CustomerActivity
	err := m.db.WithContext(ctx).Table("customer_profiles AS cp").
		Select("cp.user_id AS customer_id, COALESCE(u.username, '') AS username, cp.full_name").
		Joins("LEFT JOIN users u ON u.id = cp.user_id").
		Order("cp.id").
		Scan(&customers).Error
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to load customers: %w", err)
	}

	logger := utils.GetLogger()
	var stats RunStats
	for i := range customers {
		activity := &customers[i]
		if err := m.collect(ctx, activity, start, end); err != nil {
			stats.Failed++
			logger.Warn("failed to collect monthly activity", zap.Uint("customer_id", activity.CustomerID), zap.Error(err))
			continue
		}
		if err := m.send(ctx, activity, start); err != nil {
			stats.Failed++
			logger.Warn("failed to send monthly report", zap.Uint("customer_id", activity.CustomerID), zap.Error(err))
			continue
		}
		stats.Sent++
	}

	logger.Info("monthly reports sent",
		zap.String("month", start.Format("2006-01")),
		zap.Int("sent", stats.Sent),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

func (m *MonthlyReport) collect(ctx context.Context, activity *CustomerActivity, start, end time.Time) error {
	var totals struct {
		Completed  int64
		TotalSpent float64
	}
	err := m.db.WithContext(ctx).Table("service_requests AS sr").
		Select("COUNT(sr.id) AS completed, COALESCE(SUM(s.price), 0) AS total_spent").
		Joins("LEFT JOIN services s ON s.id = sr.service_id").
		Where("sr.customer_id = ? AND sr.service_status = ?", activity.CustomerID, models.StatusCompleted).
		Where("sr.date_of_completion >= ? AND sr.date_of_completion < ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return err
	}
	activity.Completed = totals.Completed
	activity.TotalSpent = totals.TotalSpent
	return nil
}

func (m *MonthlyReport) send(ctx context.Context, activity *CustomerActivity, start time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	name := activity.FullName
	if name == "" {
		name = activity.Username
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Here is your household services activity for %s.</p>
		<ul>
			<li><strong>Completed service requests:</strong> %d</li>
			<li><strong>Total spent:</strong> %.2f</li>
		</ul>
		<p>Thank you for using our services.</p>
	`, name, start.Format("January 2006"), activity.Completed, activity.TotalSpent)

	return m.notifier.Notify(ctx, services.Notification{
		To:      activity.Username,
		Subject: fmt.Sprintf("Your monthly activity report for %s", start.Format("January 2006")),
		Body:    body,
	})
}
