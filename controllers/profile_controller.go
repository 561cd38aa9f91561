package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
)

// CustomerProfileRequest represents the request body for saving a customer profile
type CustomerProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	PinCode  string `json:"pin_code" binding:"required"`
}

// ProfessionalProfileForm represents the multipart form for saving a professional profile
type ProfessionalProfileForm struct {
	FullName    string `form:"full_name" binding:"required"`
	ServiceType uint   `form:"service_type" binding:"required"`
	Experience  *int   `form:"experience" binding:"required"`
	Address     string `form:"address" binding:"required"`
	PinCode     string `form:"pin_code" binding:"required"`
}

// ProfessionalProfileResponse is returned after saving a professional profile
type ProfessionalProfileResponse struct {
	Profile *models.ProfessionalProfile `json:"profile"`
	FileURL string                      `json:"file_url"`
}

func profileService() *services.ProfileService {
	return services.NewProfileService(config.GetDB(), services.GetUploadStorage())
}

// GetCustomerProfile handles GET /api/v1/customer/profile
func GetCustomerProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := profileService().GetCustomerProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", profile)
}

// UpdateCustomerProfile handles PUT /api/v1/customer/profile
func UpdateCustomerProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CustomerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := profileService().UpsertCustomerProfile(c.Request.Context(), userID, services.CustomerProfileInput{
		FullName: req.FullName,
		Address:  req.Address,
		PinCode:  req.PinCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile updated successfully!", profile)
}

// GetProfessionalProfile handles GET /api/v1/professional/profile
func GetProfessionalProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := profileService().GetProfessionalProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", view)
}

// UpdateProfessionalProfile handles PUT /api/v1/professional/profile
// Accepts multipart/form-data with an optional credential "file"
func UpdateProfessionalProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Enforce the upload limit before parsing the form
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFileSize+1<<20)

	var form ProfessionalProfileForm
	if err := c.ShouldBind(&form); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respondErrorCode(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File size exceeds maximum allowed size of 16 MB")
			return
		}
		respondBindError(c, err)
		return
	}

	input := services.ProfessionalProfileInput{
		FullName:    form.FullName,
		ServiceType: form.ServiceType,
		Experience:  *form.Experience,
		Address:     form.Address,
		PinCode:     form.PinCode,
	}
	if fileHeader, err := c.FormFile("file"); err == nil {
		input.File = fileHeader
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read uploaded file")
		return
	}

	profile, err := profileService().UpsertProfessionalProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile updated successfully!", ProfessionalProfileResponse{
		Profile: profile,
		FileURL: utils.GetFileURL(profile.Filename),
	})
}
