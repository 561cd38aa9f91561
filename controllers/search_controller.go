package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
)

func searchService() *services.SearchService {
	return services.NewSearchService(config.GetDB())
}

// CustomerSearch handles GET /api/v1/customer/search?type=service|location|pin&q=
func CustomerSearch(c *gin.Context) {
	result, err := searchService().SearchProfessionals(c.Request.Context(), c.Query("type"), c.Query("q"))
	respondSearch(c, result, err)
}

// ProfessionalSearch handles GET /api/v1/professional/search?type=date|location|pin&q=
func ProfessionalSearch(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := searchService().SearchAssignedRequests(c.Request.Context(), professionalID, c.Query("type"), c.Query("q"))
	respondSearch(c, result, err)
}

// AdminSearch handles GET /api/v1/admin/search?type=customer|professional|service|service_request&q=
func AdminSearch(c *gin.Context) {
	ctx := c.Request.Context()
	search := searchService()
	query := c.Query("q")

	switch c.Query("type") {
	case services.SearchTypeCustomer:
		result, err := search.SearchCustomers(ctx, query)
		respondSearch(c, result, err)
	case services.SearchTypeProfessional:
		result, err := search.SearchAllProfessionals(ctx, query)
		respondSearch(c, result, err)
	case services.SearchTypeService:
		result, err := search.SearchServices(ctx, query)
		respondSearch(c, result, err)
	case services.SearchTypeServiceRequest:
		result, err := search.SearchRequests(ctx, query)
		respondSearch(c, result, err)
	default:
		respondErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "type must be one of customer, professional, service, service_request")
	}
}

func respondSearch[T any](c *gin.Context, result *services.SearchResult[T], err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result.Message, result)
}
