package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
)

// ServiceRequestBody represents the request body for creating or updating a catalog service
type ServiceRequestBody struct {
	ServiceType string  `json:"service_type" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
}

func (b ServiceRequestBody) input() services.ServiceInput {
	return services.ServiceInput{
		ServiceType: b.ServiceType,
		Name:        b.Name,
		Price:       b.Price,
		Description: b.Description,
	}
}

func catalogService() *services.CatalogService {
	return services.NewCatalogService(config.GetDB())
}

// ListServices handles GET /api/v1/services - lists the catalog, optionally by ?service_type=
func ListServices(c *gin.Context) {
	list, err := catalogService().List(c.Request.Context(), c.Query("service_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", list)
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	service, err := catalogService().Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", service)
}

// CreateService handles POST /api/v1/admin/services
func CreateService(c *gin.Context) {
	var req ServiceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := catalogService().Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Service created successfully", service)
}

// UpdateService handles PUT /api/v1/admin/services/:id
func UpdateService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ServiceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := catalogService().Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service updated successfully", service)
}

// DeleteService handles DELETE /api/v1/admin/services/:id
// Professionals and requests that reference the service are left as they are
func DeleteService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := catalogService().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service deleted successfully", nil)
}
