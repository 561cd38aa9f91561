package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
)

// CreateRequestBody represents the request body for requesting a service
type CreateRequestBody struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

// CloseRequestBody represents the request body for closing a service request
type CloseRequestBody struct {
	Rating  *float64 `json:"rating" binding:"required"`
	Remarks string   `json:"remarks" binding:"required"`
}

func requestService() *services.RequestService {
	return services.NewRequestService(config.GetDB(), services.GetCache())
}

// CreateRequest handles POST /api/v1/customer/requests - requests a catalog service
// The request is assigned to a matching professional in the requested state
func CreateRequest(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := requestService().Create(c.Request.Context(), customerID, req.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Service request created successfully!", request)
}

// ListCustomerRequests handles GET /api/v1/customer/requests
func ListCustomerRequests(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := requestService().ListForCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", requests)
}

// CloseRequest handles POST /api/v1/customer/requests/:id/close - completes an accepted request with a rating
func CloseRequest(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CloseRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := requestService().Close(c.Request.Context(), customerID, requestID, *req.Rating, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service request closed successfully!", request)
}

// ListOpenRequests handles GET /api/v1/professional/requests/open
func ListOpenRequests(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := requestService().ListOpenForProfessional(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", requests)
}

// ListClosedRequests handles GET /api/v1/professional/requests/closed
func ListClosedRequests(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := requestService().ListClosedForProfessional(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", requests)
}

// RespondToRequest handles POST /api/v1/professional/requests/:id/:decision - accepts or rejects a request
func RespondToRequest(c *gin.Context) {
	professionalID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := requestService().Respond(c.Request.Context(), professionalID, requestID, c.Param("decision"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service request "+request.ServiceStatus+" successfully!", request)
}
