package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Decisions a professional can take on a requested service
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// RequestService runs the service request lifecycle: matching, creation and state transitions
type RequestService struct {
	db    *gorm.DB
	cache Cache
	now   func() time.Time
}

// NewRequestService creates a request service. Completed requests invalidate summaries in cache.
func NewRequestService(db *gorm.DB, cache Cache) *RequestService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &RequestService{db: db, cache: cache, now: time.Now}
}

// Create matches the service to a professional and opens a request for the customer.
//
// Candidates are the professionals offering serviceID, in profile creation order. The first
// candidate that is approved, unblocked and has no active request for the service is assigned.
// With no candidate the result is NoProvider; when every candidate is unavailable it is
// ProviderUnavailable; when an available candidate is busy it is DuplicateActive.
func (s *RequestService) Create(ctx context.Context, customerID, serviceID uint) (*models.ServiceRequest, error) {
	if serviceID == 0 {
		return nil, invalidInput("service_id is required")
	}

	var created models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.ProfessionalProfile
		if err := tx.Where("service_type = ?", serviceID).Order("id").Find(&candidates).Error; err != nil {
			return internalError("Failed to look up professionals", err)
		}
		if len(candidates) == 0 {
			return newError(KindNoProvider, "NO_PROVIDER", "No professional offering this service yet! Please choose another service.")
		}

		var unavailable, busy *ServiceError
		var assigned *models.ProfessionalProfile
		for i := range candidates {
			candidate := &candidates[i]

			var user models.User
			if err := tx.First(&user, candidate.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return internalError("Failed to load professional account", err)
			}
			if reason := availability(&user); reason != nil {
				if unavailable == nil {
					unavailable = reason
				}
				continue
			}

			latest, err := latestRequest(tx, candidate.UserID, serviceID)
			if err != nil {
				return err
			}
			if latest != nil && latest.IsActive() {
				if busy == nil {
					busy = duplicateActive()
				}
				continue
			}

			assigned = candidate
			break
		}

		if assigned == nil {
			switch {
			case busy != nil:
				return busy
			case unavailable != nil:
				return unavailable
			default:
				return newError(KindNoProvider, "NO_PROVIDER", "No professional offering this service yet! Please choose another service.")
			}
		}

		created = models.ServiceRequest{
			ServiceID:      serviceID,
			CustomerID:     customerID,
			ProfessionalID: assigned.UserID,
			ServiceStatus:  models.StatusRequested,
			DateOfRequest:  s.now(),
			ActiveKey:      models.ActiveKeyFor(assigned.UserID, serviceID),
		}
		if err := tx.Create(&created).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicateActive()
			}
			return internalError("Failed to create service request", err)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to create service request")
	}

	utils.GetLogger().Info("service request created",
		zap.Uint("request_id", created.ID),
		zap.Uint("customer_id", customerID),
		zap.Uint("professional_id", created.ProfessionalID),
		zap.Uint("service_id", serviceID))
	return &created, nil
}

// Respond lets the assigned professional accept or reject a requested service
func (s *RequestService) Respond(ctx context.Context, professionalID, requestID uint, decision string) (*models.ServiceRequest, error) {
	var target string
	switch decision {
	case DecisionAccept:
		target = models.StatusAccepted
	case DecisionReject:
		target = models.StatusRejected
	default:
		return nil, invalidInput("decision must be 'accept' or 'reject'")
	}

	var updated models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := findRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.ProfessionalID != professionalID {
			return newError(KindForbidden, "NOT_ASSIGNED", "Service request is not assigned to you")
		}

		updates := map[string]interface{}{
			"service_status":        target,
			"date_of_accept_reject": s.now(),
		}
		if target == models.StatusRejected {
			updates["active_key"] = nil
		}
		if err := transition(tx, request, target, updates); err != nil {
			return err
		}

		reloaded, err := findRequest(tx, requestID)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to update service request")
	}

	utils.GetLogger().Info("service request answered",
		zap.Uint("request_id", requestID),
		zap.Uint("professional_id", professionalID),
		zap.String("status", updated.ServiceStatus))
	return &updated, nil
}

// Close completes an accepted request for its customer, stores the remarks and folds the
// rating into the professional's review score as (reviews + rating) / 2.
func (s *RequestService) Close(ctx context.Context, customerID, requestID uint, rating float64, remarks string) (*models.ServiceRequest, error) {
	if math.IsNaN(rating) || rating < 0 || rating > 5 {
		return nil, invalidInput("Rating must be between 0 and 5.")
	}
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, invalidInput("remarks are required")
	}

	var updated models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := findRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.CustomerID != customerID {
			return newError(KindForbidden, "NOT_YOUR_REQUEST", "Service request does not belong to you")
		}

		updates := map[string]interface{}{
			"service_status":     models.StatusCompleted,
			"date_of_completion": s.now(),
			"remarks":            remarks,
			"active_key":         nil,
		}
		if err := transition(tx, request, models.StatusCompleted, updates); err != nil {
			return err
		}

		result := tx.Model(&models.ProfessionalProfile{}).
			Where("user_id = ?", request.ProfessionalID).
			Update("reviews", gorm.Expr("(reviews + ?) / 2", rating))
		if result.Error != nil {
			return internalError("Failed to update professional reviews", result.Error)
		}
		if result.RowsAffected == 0 {
			utils.GetLogger().Warn("completed request has no professional profile to review",
				zap.Uint("request_id", requestID),
				zap.Uint("professional_id", request.ProfessionalID))
		}

		reloaded, err := findRequest(tx, requestID)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to close service request")
	}

	s.invalidateSummaries(ctx, updated.CustomerID, updated.ProfessionalID)
	utils.GetLogger().Info("service request completed",
		zap.Uint("request_id", requestID),
		zap.Uint("customer_id", customerID),
		zap.Float64("rating", rating))
	return &updated, nil
}

// ListForCustomer returns every request created by the customer, newest first
func (s *RequestService) ListForCustomer(ctx context.Context, customerID uint) ([]RequestView, error) {
	return s.list(ctx, requestViews(s.db.WithContext(ctx)).Where("sr.customer_id = ?", customerID))
}

// ListOpenForProfessional returns the professional's requests still waiting for an answer
func (s *RequestService) ListOpenForProfessional(ctx context.Context, professionalID uint) ([]RequestView, error) {
	return s.list(ctx, requestViews(s.db.WithContext(ctx)).
		Where("sr.professional_id = ? AND sr.service_status = ?", professionalID, models.StatusRequested))
}

// ListClosedForProfessional returns the professional's requests that were already answered
func (s *RequestService) ListClosedForProfessional(ctx context.Context, professionalID uint) ([]RequestView, error) {
	return s.list(ctx, requestViews(s.db.WithContext(ctx)).
		Where("sr.professional_id = ? AND sr.service_status <> ?", professionalID, models.StatusRequested))
}

// Get loads a single request
func (s *RequestService) Get(ctx context.Context, requestID uint) (*models.ServiceRequest, error) {
	return findRequest(s.db.WithContext(ctx), requestID)
}

func (s *RequestService) list(ctx context.Context, query *gorm.DB) ([]RequestView, error) {
	views := []RequestView{}
	if err := query.Order("sr.date_of_request DESC, sr.id DESC").Scan(&views).Error; err != nil {
		return nil, internalError("Failed to list service requests", err)
	}
	return views, nil
}

func (s *RequestService) invalidateSummaries(ctx context.Context, customerID, professionalID uint) {
	keys := []string{
		adminRequestsSummaryKey,
		adminReviewsSummaryKey,
		customerRequestsSummaryKey(customerID),
		professionalRequestsSummaryKey(professionalID),
		professionalReviewsSummaryKey(professionalID),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		utils.GetLogger().Warn("failed to invalidate cached summaries", zap.Error(err))
	}
}

// transition moves request to target with a conditional update so that a concurrent
// transition from the same status cannot also succeed
func transition(tx *gorm.DB, request *models.ServiceRequest, target string, updates map[string]interface{}) error {
	if !models.CanTransition(request.ServiceStatus, target) {
		return invalidTransition(request.ServiceStatus, target)
	}

	result := tx.Model(&models.ServiceRequest{}).
		Where("id = ? AND service_status = ?", request.ID, request.ServiceStatus).
		Updates(updates)
	if result.Error != nil {
		return internalError("Failed to update service request", result.Error)
	}
	if result.RowsAffected == 0 {
		return invalidTransition(request.ServiceStatus, target)
	}
	return nil
}

func findRequest(db *gorm.DB, requestID uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := db.First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "REQUEST_NOT_FOUND", "Service request not found")
	}
	if err != nil {
		return nil, internalError("Failed to load service request", err)
	}
	return &request, nil
}

// latestRequest returns the most recent request for a professional and service, or nil
func latestRequest(tx *gorm.DB, professionalID, serviceID uint) (*models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := tx.Where("professional_id = ? AND service_id = ?", professionalID, serviceID).
		Order("date_of_request DESC, id DESC").
		Limit(1).
		Find(&requests).Error
	if err != nil {
		return nil, internalError("Failed to look up existing requests", err)
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

func availability(user *models.User) *ServiceError {
	if !user.Approve {
		return newError(KindProviderUnavailable, "PROVIDER_NOT_APPROVED", "Professional offering this service is still not approved! Please choose another service.")
	}
	if user.Blocked {
		return newError(KindProviderUnavailable, "PROVIDER_BLOCKED", "Professional offering this service is blocked! Please choose another service.")
	}
	return nil
}

func duplicateActive() *ServiceError {
	return newError(KindDuplicateActive, "DUPLICATE_ACTIVE", "Service request already exists! Please wait for the professional to respond or choose another service.")
}

func invalidTransition(from, to string) *ServiceError {
	return newError(KindInvalidTransition, "INVALID_TRANSITION", fmt.Sprintf("Cannot change a %s service request to %s", from, to))
}

// asServiceError keeps ServiceErrors returned from a transaction and wraps anything else
func asServiceError(err error, message string) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internalError(message, err)
}
