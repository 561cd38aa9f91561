package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
)

func summaryService() *services.SummaryService {
	ttl := config.GetConfig().SummaryCacheTTL
	return services.NewSummaryService(config.GetDB(), services.GetCache(), ttl)
}

// AdminReviewsSummary handles GET /api/v1/admin/summary/reviews
func AdminReviewsSummary(c *gin.Context) {
	summary, err := summaryService().AllReviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", summary)
}

// AdminRequestsSummary handles GET /api/v1/admin/summary/requests
func AdminRequestsSummary(c *gin.Context) {
	summary, err := summaryService().AllCompletions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", summary)
}

// CustomerRequestsSummary handles GET /api/v1/customer/summary/requests
func CustomerRequestsSummary(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := summaryService().CustomerCompletions(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", summary)
}

// ProfessionalReviewsSummary handles GET /api/v1/professional/summary/reviews
func ProfessionalReviewsSummary(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := summaryService().ProfessionalReviews(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", summary)
}

// ProfessionalRequestsSummary handles GET /api/v1/professional/summary/requests
func ProfessionalRequestsSummary(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := summaryService().ProfessionalCompletions(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", summary)
}
