package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	adminRequestsSummaryKey = "summary:admin:requests"
	adminReviewsSummaryKey  = "summary:admin:reviews"
)

func customerRequestsSummaryKey(customerID uint) string {
	return fmt.Sprintf("summary:customer:%d:requests", customerID)
}

func professionalRequestsSummaryKey(professionalID uint) string {
	return fmt.Sprintf("summary:professional:%d:requests", professionalID)
}

func professionalReviewsSummaryKey(professionalID uint) string {
	return fmt.Sprintf("summary:professional:%d:reviews", professionalID)
}

// DateCount is the number of requests completed on one day (YYYY-MM-DD)
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ReviewSummary is a professional's current review score
type ReviewSummary struct {
	ProfessionalID uint    `json:"professional_id"`
	FullName       string  `json:"full_name"`
	Reviews        float64 `json:"reviews"`
}

// SummaryService computes the aggregate charts. Results are cached until the next completion or ttl.
type SummaryService struct {
	db    *gorm.DB
	cache Cache
	ttl   time.Duration
}

// NewSummaryService creates a summary service
func NewSummaryService(db *gorm.DB, cache Cache, ttl time.Duration) *SummaryService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &SummaryService{db: db, cache: cache, ttl: ttl}
}

// AllReviews returns the review score of every professional
func (s *SummaryService) AllReviews(ctx context.Context) ([]ReviewSummary, error) {
	return cached(ctx, s, adminReviewsSummaryKey, func() ([]ReviewSummary, error) {
		return s.reviews(s.db.WithContext(ctx))
	})
}

// ProfessionalReviews returns the professional's own review score
func (s *SummaryService) ProfessionalReviews(ctx context.Context, professionalID uint) ([]ReviewSummary, error) {
	return cached(ctx, s, professionalReviewsSummaryKey(professionalID), func() ([]ReviewSummary, error) {
		return s.reviews(s.db.WithContext(ctx).Where("user_id = ?", professionalID))
	})
}

// AllCompletions returns completed requests per completion day
func (s *SummaryService) AllCompletions(ctx context.Context) ([]DateCount, error) {
	return cached(ctx, s, adminRequestsSummaryKey, func() ([]DateCount, error) {
		return s.completions(s.db.WithContext(ctx))
	})
}

// CustomerCompletions returns the customer's completed requests per completion day
func (s *SummaryService) CustomerCompletions(ctx context.Context, customerID uint) ([]DateCount, error) {
	return cached(ctx, s, customerRequestsSummaryKey(customerID), func() ([]DateCount, error) {
		return s.completions(s.db.WithContext(ctx).Where("customer_id = ?", customerID))
	})
}

// ProfessionalCompletions returns the professional's completed requests per completion day
func (s *SummaryService) ProfessionalCompletions(ctx context.Context, professionalID uint) ([]DateCount, error) {
	return cached(ctx, s, professionalRequestsSummaryKey(professionalID), func() ([]DateCount, error) {
		return s.completions(s.db.WithContext(ctx).Where("professional_id = ?", professionalID))
	})
}

func (s *SummaryService) reviews(query *gorm.DB) ([]ReviewSummary, error) {
	summaries := []ReviewSummary{}
	err := query.Model(&models.ProfessionalProfile{}).
		Select("user_id AS professional_id, full_name, reviews").
		Order("id").
		Scan(&summaries).Error
	if err != nil {
		return nil, internalError("Failed to load reviews", err)
	}
	return summaries, nil
}

// completions buckets date_of_completion by day in Go so the grouping is the same on every database
func (s *SummaryService) completions(query *gorm.DB) ([]DateCount, error) {
	var dates []time.Time
	err := query.Model(&models.ServiceRequest{}).
		Where("date_of_completion IS NOT NULL").
		Pluck("date_of_completion", &dates).Error
	if err != nil {
		return nil, internalError("Failed to load completed requests", err)
	}

	counts := map[string]int{}
	for _, d := range dates {
		counts[d.UTC().Format("2006-01-02")]++
	}

	summary := make([]DateCount, 0, len(counts))
	for date, count := range counts {
		summary = append(summary, DateCount{Date: date, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Date < summary[j].Date })
	return summary, nil
}

func cached[T any](ctx context.Context, s *SummaryService, key string, load func() ([]T, error)) ([]T, error) {
	var hit []T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		utils.GetLogger().Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found && hit != nil {
		return hit, nil
	}

	value, err := load()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		utils.GetLogger().Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
