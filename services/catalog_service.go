package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceInput holds the admin-editable fields of a catalog service
type ServiceInput struct {
	ServiceType string
	Name        string
	Price       float64
	Description string
}

// ServiceOption is the id/name pair offered when a professional picks a service
type ServiceOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CatalogService manages the service catalog
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns catalog services, optionally restricted to one category
func (s *CatalogService) List(ctx context.Context, serviceType string) ([]models.Service, error) {
	query := s.db.WithContext(ctx).Order("id")
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}

	services := []models.Service{}
	if err := query.Find(&services).Error; err != nil {
		return nil, internalError("Failed to list services", err)
	}
	return services, nil
}

// Options returns every catalog service as an id/name pair
func (s *CatalogService) Options(ctx context.Context) ([]ServiceOption, error) {
	options := []ServiceOption{}
	if err := s.db.WithContext(ctx).Model(&models.Service{}).Select("id", "name").Order("id").Scan(&options).Error; err != nil {
		return nil, internalError("Failed to list services", err)
	}
	return options, nil
}

// Get loads a catalog service
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := s.db.WithContext(ctx).First(&service, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "SERVICE_NOT_FOUND", "Service not found")
	}
	if err != nil {
		return nil, internalError("Failed to load service", err)
	}
	return &service, nil
}

// Create adds a catalog service
func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := validateServiceInput(&in); err != nil {
		return nil, err
	}

	service := models.Service{
		ServiceType: in.ServiceType,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, internalError("Failed to create service", err)
	}

	utils.GetLogger().Info("service created", zap.Uint("service_id", service.ID), zap.String("name", service.Name))
	return &service, nil
}

// Update replaces every editable field of a catalog service
func (s *CatalogService) Update(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	if err := validateServiceInput(&in); err != nil {
		return nil, err
	}

	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	service.ServiceType = in.ServiceType
	service.Name = in.Name
	service.Price = in.Price
	service.Description = in.Description
	if err := s.db.WithContext(ctx).Save(service).Error; err != nil {
		return nil, internalError("Failed to update service", err)
	}
	return service, nil
}

// Delete removes a catalog service. Profiles and requests that reference it are left as they are.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Service{}, id)
	if result.Error != nil {
		return internalError("Failed to delete service", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "SERVICE_NOT_FOUND", "Service not found")
	}

	utils.GetLogger().Info("service deleted", zap.Uint("service_id", id))
	return nil
}

func validateServiceInput(in *ServiceInput) error {
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.ServiceType == "" || in.Name == "" || in.Description == "" {
		return invalidInput("service_type, name, price and description are required")
	}
	if !models.ValidServiceCategory(in.ServiceType) {
		return invalidInput("service_type must be one of: " + strings.Join(models.ServiceCategories, ", "))
	}
	if in.Price <= 0 {
		return invalidInput("price must be greater than zero")
	}
	return nil
}
