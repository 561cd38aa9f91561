package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/services"
)

// ManageUserRequest represents the request body for approving or blocking an account
type ManageUserRequest struct {
	Approve *bool `json:"approve"`
	Blocked *bool `json:"blocked"`
}

// ManageUser handles PATCH /api/v1/admin/users/:id - approves/rejects or blocks/unblocks an account
func ManageUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ManageUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := identityService().ManageUser(c.Request.Context(), userID, services.ManageUserInput{
		Approve: req.Approve,
		Blocked: req.Blocked,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "User updated successfully", RegisteredUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Approve:  user.Approve,
		Blocked:  user.Blocked,
	})
}
