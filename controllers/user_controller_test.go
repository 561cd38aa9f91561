package controllers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManageUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin", models.RoleAdmin, true)
	alice := env.createUser("alice", models.RoleCustomer, false)
	adminToken := env.tokenFor(admin)
	path := "/api/v1/admin/users/" + strconv.Itoa(int(alice.ID))

	w, response := env.doJSON(http.MethodPatch, path, adminToken, map[string]interface{}{"approve": true, "blocked": false})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(response)
	assert.Equal(t, true, data["approve"])
	assert.Equal(t, false, data["blocked"])

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, alice.ID).Error)
	assert.True(t, reloaded.IsActive())

	// only blocked is changed
	w, response = env.doJSON(http.MethodPatch, path, adminToken, map[string]interface{}{"blocked": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(response)["approve"])
	assert.Equal(t, true, dataMap(response)["blocked"])
}

func TestManageUserErrors(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin", models.RoleAdmin, true)
	alice := env.createUser("alice", models.RoleCustomer, true)
	adminToken := env.tokenFor(admin)

	tests := []struct {
		name           string
		token          string
		path           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{"customer cannot manage users", env.tokenFor(alice), "/api/v1/admin/users/" + strconv.Itoa(int(alice.ID)), map[string]interface{}{"approve": true}, http.StatusUnauthorized, "UNAUTHORIZED_ROLE"},
		{"invalid id", adminToken, "/api/v1/admin/users/abc", map[string]interface{}{"approve": true}, http.StatusBadRequest, "INVALID_ID"},
		{"unknown user", adminToken, "/api/v1/admin/users/999", map[string]interface{}{"approve": true}, http.StatusNotFound, "USER_NOT_FOUND"},
		{"nothing to change", adminToken, "/api/v1/admin/users/" + strconv.Itoa(int(alice.ID)), map[string]interface{}{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"admin account", adminToken, "/api/v1/admin/users/" + strconv.Itoa(int(admin.ID)), map[string]interface{}{"blocked": true}, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.doJSON(http.MethodPatch, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, errorCode(response))
		})
	}
}
