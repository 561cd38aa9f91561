package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionsBucketByDay(t *testing.T) {
	db := newTestDB(t)
	service := createService(t, db, "Home Cleaning", "cleaning", 500)
	alice := createCustomer(t, db, "alice", "Mumbai", "400001")
	carol := createCustomer(t, db, "carol", "Pune", "411001")
	bobby := createProfessional(t, db, "bobby", service.ID, "Chennai", "600001")

	createCompletedRequest(t, db, service.ID, alice.ID, bobby.ID, time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC))
	createCompletedRequest(t, db, service.ID, carol.ID, bobby.ID, time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC))
	createCompletedRequest(t, db, service.ID, alice.ID, bobby.ID, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	summaries := NewSummaryService(db, nil, time.Minute)
	ctx := context.Background()

	all, err := summaries.AllCompletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DateCount{{Date: "2026-10-01", Count: 2}, {Date: "2026-10-02", Count: 1}}, all)

	mine, err := summaries.CustomerCompletions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []DateCount{{Date: "2026-10-01", Count: 1}, {Date: "2026-10-02", Count: 1}}, mine)

	professional, err := summaries.ProfessionalCompletions(ctx, bobby.ID)
	require.NoError(t, err)
	assert.Equal(t, all, professional)

	none, err := summaries.ProfessionalCompletions(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCompletionsIgnoreOpenRequests(t *testing.T) {
	db := newTestDB(t)
	service := createService(t, db, "Home Cleaning", "cleaning", 500)
	alice := createCustomer(t, db, "alice", "Mumbai", "400001")
	createProfessional(t, db, "bobby", service.ID, "Chennai", "600001")

	_, err := NewRequestService(db, nil).Create(context.Background(), alice.ID, service.ID)
	require.NoError(t, err)

	all, err := NewSummaryService(db, nil, time.Minute).AllCompletions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReviewSummaries(t *testing.T) {
	db := newTestDB(t)
	service := createService(t, db, "Home Cleaning", "cleaning", 500)
	bobby := createProfessional(t, db, "bobby", service.ID, "Chennai", "600001")
	dave := createProfessional(t, db, "dave", service.ID, "Delhi", "110001")
	setReviews(t, db, bobby.ID, 4)
	setReviews(t, db, dave.ID, 2.5)

	summaries := NewSummaryService(db, nil, time.Minute)
	ctx := context.Background()

	all, err := summaries.AllReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ReviewSummary{
		{ProfessionalID: bobby.ID, FullName: "bobby Jones", Reviews: 4},
		{ProfessionalID: dave.ID, FullName: "dave Jones", Reviews: 2.5},
	}, all)

	own, err := summaries.ProfessionalReviews(ctx, dave.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 2.5, own[0].Reviews)
}

func TestSummariesAreCached(t *testing.T) {
	db := newTestDB(t)
	service := createService(t, db, "Home Cleaning", "cleaning", 500)
	alice := createCustomer(t, db, "alice", "Mumbai", "400001")
	bobby := createProfessional(t, db, "bobby", service.ID, "Chennai", "600001")
	createCompletedRequest(t, db, service.ID, alice.ID, bobby.ID, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	cache := NewMockCache()
	summaries := NewSummaryService(db, cache, time.Minute)
	ctx := context.Background()

	first, err := summaries.AllCompletions(ctx)
	require.NoError(t, err)
	assert.True(t, cache.Has(adminRequestsSummaryKey))
	assert.Equal(t, 0, cache.Hits)

	// a new completion is not visible until the key is invalidated
	createCompletedRequest(t, db, service.ID, alice.ID, bobby.ID, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	second, err := summaries.AllCompletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Hits)

	require.NoError(t, cache.Delete(ctx, adminRequestsSummaryKey))
	third, err := summaries.AllCompletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DateCount{{Date: "2026-10-01", Count: 2}}, third)
}

func TestSummariesFallBackWhenCacheFails(t *testing.T) {
	db := newTestDB(t)
	service := createService(t, db, "Home Cleaning", "cleaning", 500)
	bobby := createProfessional(t, db, "bobby", service.ID, "Chennai", "600001")
	setReviews(t, db, bobby.ID, 3)

	cache := NewMockCache()
	cache.GetErr = errors.New("redis down")

	reviews, err := NewSummaryService(db, cache, time.Minute).AllReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 3.0, reviews[0].Reviews)
}

func TestSummaryKeys(t *testing.T) {
	assert.Equal(t, "summary:customer:7:requests", customerRequestsSummaryKey(7))
	assert.Equal(t, "summary:professional:8:requests", professionalRequestsSummaryKey(8))
	assert.Equal(t, "summary:professional:8:reviews", professionalReviewsSummaryKey(8))
}
