package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
)

func dashboardService() *services.DashboardService {
	db := config.GetDB()
	return services.NewDashboardService(db, services.NewCatalogService(db), requestService())
}

// CustomerDashboard handles GET /api/v1/customer/dashboard
func CustomerDashboard(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := dashboardService().Customer(c.Request.Context(), customerID, c.Query("service_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dashboard)
}

// ProfessionalDashboard handles GET /api/v1/professional/dashboard
func ProfessionalDashboard(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := dashboardService().Professional(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dashboard)
}

// AdminDashboard handles GET /api/v1/admin/dashboard
func AdminDashboard(c *gin.Context) {
	dashboard, err := dashboardService().Admin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dashboard)
}
