package services

import (
	"context"

	"github.com/kendall-kelly/household-services-api/models"
	"gorm.io/gorm"
)

// CustomerDashboard lists the catalog and the customer's own requests
type CustomerDashboard struct {
	Services []models.Service `json:"services"`
	Requests []RequestView    `json:"requests"`
}

// ProfessionalDashboard lists the professional's open and answered requests
type ProfessionalDashboard struct {
	Open   []RequestView `json:"open"`
	Closed []RequestView `json:"closed"`
}

// AdminDashboard lists everything the admin manages
type AdminDashboard struct {
	Services      []models.Service   `json:"services"`
	Professionals []ProfessionalView `json:"professionals"`
	Customers     []CustomerView     `json:"customers"`
	Requests      []RequestView      `json:"requests"`
}

// DashboardService assembles the per-role landing views
type DashboardService struct {
	db       *gorm.DB
	catalog  *CatalogService
	requests *RequestService
}

// NewDashboardService creates a dashboard service
func NewDashboardService(db *gorm.DB, catalog *CatalogService, requests *RequestService) *DashboardService {
	return &DashboardService{db: db, catalog: catalog, requests: requests}
}

// Customer returns the customer dashboard, with the catalog optionally filtered by category
func (s *DashboardService) Customer(ctx context.Context, customerID uint, serviceType string) (*CustomerDashboard, error) {
	catalog, err := s.catalog.List(ctx, serviceType)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerDashboard{Services: catalog, Requests: requests}, nil
}

// Professional returns the professional dashboard
func (s *DashboardService) Professional(ctx context.Context, professionalID uint) (*ProfessionalDashboard, error) {
	open, err := s.requests.ListOpenForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	closed, err := s.requests.ListClosedForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return &ProfessionalDashboard{Open: open, Closed: closed}, nil
}

// Admin returns the admin dashboard
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	catalog, err := s.catalog.List(ctx, "")
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	professionals := []ProfessionalView{}
	if err := professionalViews(db).Order("u.id").Scan(&professionals).Error; err != nil {
		return nil, internalError("Failed to list professionals", err)
	}
	customers := []CustomerView{}
	if err := customerViews(db).Order("u.id").Scan(&customers).Error; err != nil {
		return nil, internalError("Failed to list customers", err)
	}
	requests := []RequestView{}
	if err := requestViews(db).Order("sr.date_of_request DESC, sr.id DESC").Scan(&requests).Error; err != nil {
		return nil, internalError("Failed to list service requests", err)
	}

	return &AdminDashboard{
		Services:      catalog,
		Professionals: withFileURLs(professionals),
		Customers:     customers,
		Requests:      requests,
	}, nil
}
