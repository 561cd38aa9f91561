package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/middleware"
	"github.com/kendall-kelly/household-services-api/services"
)

// RegisterRequest represents the request body for self-service registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisteredUser is returned after a successful registration
type RegisteredUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Approve  bool   `json:"approve"`
	Blocked  bool   `json:"blocked"`
}

// SessionInfo echoes the verified claims of the caller
type SessionInfo struct {
	UserID          uint   `json:"user_id"`
	Role            string `json:"role"`
	Redirect        string `json:"redirect"`
	ProfileRequired bool   `json:"profile_required"`
}

func identityService() *services.IdentityService {
	return services.NewIdentityService(config.GetDB(), services.NewTokenService(config.GetConfig()))
}

// Register handles POST /api/v1/auth/register - creates a customer or professional account
// New accounts need admin approval before they can use the marketplace
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := identityService().Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Registration successful! Please log in.", RegisteredUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Approve:  user.Approve,
		Blocked:  user.Blocked,
	})
}

// Login handles POST /api/v1/auth/login - authenticates customers and professionals
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := identityService().Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", result)
}

// AdminLogin handles POST /api/v1/auth/admin/login - authenticates the admin
func AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := identityService().AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", result)
}

// Me handles GET /api/v1/auth/me - returns the caller's verified claims
func Me(c *gin.Context) {
	claims, err := middleware.GetSessionClaims(c)
	if err != nil {
		respondErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not retrieve token claims")
		return
	}

	respondSuccess(c, http.StatusOK, "", SessionInfo{
		UserID:          claims.UserID,
		Role:            claims.Role,
		Redirect:        claims.Redirect,
		ProfileRequired: claims.ProfileRequired,
	})
}
