package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportPeriod(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		start time.Time
		end   time.Time
	}{
		{
			name:  "mid month",
			now:   time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC),
			start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "january rolls back a year",
			now:   time.Date(2027, 1, 1, 9, 0, 0, 0, time.UTC),
			start: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ReportPeriod(tt.now)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestMonthlyReport(t *testing.T) {
	db := newTestDB(t)
	cleaning := createService(t, db, "Home Cleaning", 500)
	painting := createService(t, db, "Wall Paint", 800)
	alice := createCustomer(t, db, "alice")
	carol := createCustomer(t, db, "carol")
	bobby := createProfessional(t, db, "bobby", cleaning.ID)

	createRequest(t, db, cleaning.ID, alice.ID, bobby.ID, models.StatusCompleted, at(2026, 9, 3))
	createRequest(t, db, painting.ID, alice.ID, bobby.ID, models.StatusCompleted, at(2026, 9, 28))
	// outside the period or not completed
	createRequest(t, db, cleaning.ID, alice.ID, bobby.ID, models.StatusCompleted, at(2026, 10, 2))
	createRequest(t, db, cleaning.ID, alice.ID, bobby.ID, models.StatusCompleted, at(2026, 8, 31))
	createRequest(t, db, cleaning.ID, carol.ID, bobby.ID, models.StatusAccepted, nil)

	notifier := services.NewMockNotifier()
	report := NewMonthlyReport(db, notifier, time.Second)
	report.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }

	stats, err := report.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunStats{Sent: 2}, stats)

	sent := notifier.Sent()
	require.Len(t, sent, 2)

	assert.Equal(t, "alice", sent[0].To)
	assert.Equal(t, "Your monthly activity report for September 2026", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "alice Smith")
	assert.Contains(t, sent[0].Body, "<strong>Completed service requests:</strong> 2")
	assert.Contains(t, sent[0].Body, "<strong>Total spent:</strong> 1300.00")

	// customers without completed work still get a report
	assert.Equal(t, "carol", sent[1].To)
	assert.Contains(t, sent[1].Body, "<strong>Completed service requests:</strong> 0")
	assert.Contains(t, sent[1].Body, "<strong>Total spent:</strong> 0.00")
}

func TestMonthlyReportContinuesAfterFailure(t *testing.T) {
	db := newTestDB(t)
	createCustomer(t, db, "alice")
	createCustomer(t, db, "carol")

	notifier := services.NewMockNotifier()
	notifier.FailFor["alice"] = true
	report := NewMonthlyReport(db, notifier, time.Second)

	stats, err := report.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunStats{Sent: 1, Failed: 1}, stats)
	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, "carol", notifier.Sent()[0].To)
}
