package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/middleware"
	"github.com/kendall-kelly/household-services-api/models"
)

// RegisterRoutes mounts every API route on the /api/v1 group
func RegisterRoutes(v1 *gin.RouterGroup, cfg *config.Config) {
	auth := middleware.EnsureValidToken(cfg)
	active := middleware.RequireActiveAccount()

	v1.POST("/auth/register", Register)
	v1.POST("/auth/login", Login)
	v1.POST("/auth/admin/login", AdminLogin)
	v1.GET("/auth/me", auth, Me)

	v1.GET("/services", auth, ListServices)
	v1.GET("/services/:id", auth, GetService)
	v1.GET("/files/:filename", auth, middleware.RequireRole(models.RoleAdmin, models.RoleProfessional), DownloadFile)

	admin := v1.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", AdminDashboard)
		admin.PATCH("/users/:id", ManageUser)
		admin.POST("/services", CreateService)
		admin.PUT("/services/:id", UpdateService)
		admin.DELETE("/services/:id", DeleteService)
		admin.GET("/search", AdminSearch)
		admin.GET("/summary/reviews", AdminReviewsSummary)
		admin.GET("/summary/requests", AdminRequestsSummary)
		admin.POST("/exports", CreateExport)
	}

	customer := v1.Group("/customer", auth, middleware.RequireRole(models.RoleCustomer))
	{
		customer.GET("/profile", GetCustomerProfile)
		customer.PUT("/profile", UpdateCustomerProfile)
		customer.GET("/dashboard", active, CustomerDashboard)
		customer.POST("/requests", active, CreateRequest)
		customer.GET("/requests", active, ListCustomerRequests)
		customer.POST("/requests/:id/close", active, CloseRequest)
		customer.GET("/search", active, CustomerSearch)
		customer.GET("/summary/requests", active, CustomerRequestsSummary)
	}

	professional := v1.Group("/professional", auth, middleware.RequireRole(models.RoleProfessional))
	{
		professional.GET("/profile", GetProfessionalProfile)
		professional.PUT("/profile", UpdateProfessionalProfile)
		professional.GET("/dashboard", active, ProfessionalDashboard)
		professional.GET("/requests/open", active, ListOpenRequests)
		professional.GET("/requests/closed", active, ListClosedRequests)
		professional.POST("/requests/:id/:decision", active, RespondToRequest)
		professional.GET("/search", active, ProfessionalSearch)
		professional.GET("/summary/reviews", active, ProfessionalReviewsSummary)
		professional.GET("/summary/requests", active, ProfessionalRequestsSummary)
	}
}
