package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/household-services-api/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a periodic task
type Job interface {
	Run(ctx context.Context) (RunStats, error)
}

// Scheduler runs the periodic jobs on their cron schedules
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the reminder sweep and the monthly report with their schedules
func NewScheduler(reminderSchedule string, reminder Job, reportSchedule string, report Job) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(reminderSchedule, runner("reminder", reminder)); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", reminderSchedule, err)
	}
	if _, err := c.AddFunc(reportSchedule, runner("monthly_report", report)); err != nil {
		return nil, fmt.Errorf("invalid monthly report schedule %q: %w", reportSchedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start starts the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	utils.GetLogger().Info("job scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		utils.GetLogger().Warn("job scheduler stopped before running jobs finished")
	}
}

// runner wraps a job so a failed run is reported to the operator and never retried
func runner(name string, job Job) func() {
	return func() {
		started := time.Now()
		stats, err := job.Run(context.Background())
		if err != nil {
			utils.GetLogger().Error("job run failed", zap.String("job", name), zap.Error(err))
			return
		}
		utils.GetLogger().Info("job run finished",
			zap.String("job", name),
			zap.Int("sent", stats.Sent),
			zap.Int("failed", stats.Failed),
			zap.Duration("took", time.Since(started)))
	}
}
