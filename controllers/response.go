package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/middleware"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

// ErrorBody is the error part of a failed response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Response is the envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

var statusByKind = map[services.ErrorKind]int{
	services.KindInvalidInput:        http.StatusBadRequest,
	services.KindUnauthorized:        http.StatusUnauthorized,
	services.KindForbidden:           http.StatusForbidden,
	services.KindNotFound:            http.StatusNotFound,
	services.KindNoData:              http.StatusNotFound,
	services.KindConflict:            http.StatusConflict,
	services.KindDuplicateActive:     http.StatusConflict,
	services.KindInvalidTransition:   http.StatusConflict,
	services.KindNoProvider:          http.StatusUnprocessableEntity,
	services.KindProviderUnavailable: http.StatusUnprocessableEntity,
	services.KindInternal:            http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for a service error
func StatusFor(err error) int {
	if status, ok := statusByKind[services.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)

	body := &ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		body.Code = svcErr.Code
		body.Message = svcErr.Message
	}

	if status >= http.StatusInternalServerError {
		utils.GetLogger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", body.Code),
			zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: body})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request data",
			Details: err.Error(),
		},
	})
}

// currentUserID returns the caller's id from the verified claims, answering 401 when it is missing
func currentUserID(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, false
	}
	return userID, true
}

// idParam parses a positive numeric path parameter, answering 400 when it is not one
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
