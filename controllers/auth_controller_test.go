package controllers

import (
	"net/http"
	"testing"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Successfully register a customer",
			body:           map[string]interface{}{"username": "alice", "password": "pw1234", "role": "customer"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Successfully register a professional",
			body:           map[string]interface{}{"username": "bobby", "password": "pw1234", "role": "professional"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing role",
			body:           map[string]interface{}{"username": "alice", "password": "pw1234"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Admin role is not self-service",
			body:           map[string]interface{}{"username": "alice", "password": "pw1234", "role": "admin"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "Username too short",
			body:           map[string]interface{}{"username": "al", "password": "pw1234", "role": "customer"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w, response := env.doJSON(http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedCode, errorCode(response))
				return
			}

			assert.True(t, response["success"].(bool))
			assert.Equal(t, "Registration successful! Please log in.", response["message"])
			data := dataMap(response)
			assert.Equal(t, tt.body["username"], data["username"])
			assert.Equal(t, false, data["approve"])
			assert.Equal(t, true, data["blocked"])
			assert.NotContains(t, data, "password")
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleCustomer, false)

	w, response := env.doJSON(http.MethodPost, "/api/v1/auth/register", "",
		map[string]interface{}{"username": "alice", "password": "pw1234", "role": "professional"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(response))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", models.RoleCustomer, false)

	// no profile yet: routed to profile setup
	w, response := env.doJSON(http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"username": "alice", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(response)
	assert.Equal(t, "customer_profile", data["redirect"])
	assert.Equal(t, true, data["profile_required"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.NotEmpty(t, data["access_token"])

	require.NoError(t, env.db.Create(&models.CustomerProfile{UserID: alice.ID, FullName: "Alice", Address: "Mumbai", PinCode: "400001"}).Error)

	w, response = env.doJSON(http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"username": "alice", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_NOT_APPROVED", errorCode(response))

	require.NoError(t, env.db.Model(alice).Updates(map[string]interface{}{"approve": true, "blocked": false}).Error)
	w, response = env.doJSON(http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"username": "alice", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "customer_dashboard", dataMap(response)["redirect"])
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleCustomer, true)
	env.createUser("admin", models.RoleAdmin, true)

	tests := []struct {
		name           string
		path           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{"wrong password", "/api/v1/auth/login", map[string]interface{}{"username": "alice", "password": "nope1"}, http.StatusUnauthorized, "BAD_CREDENTIALS"},
		{"unknown user", "/api/v1/auth/login", map[string]interface{}{"username": "ghost", "password": testPassword}, http.StatusUnauthorized, "BAD_CREDENTIALS"},
		{"admin on user login", "/api/v1/auth/login", map[string]interface{}{"username": "admin", "password": testPassword}, http.StatusUnauthorized, "BAD_CREDENTIALS"},
		{"customer on admin login", "/api/v1/auth/admin/login", map[string]interface{}{"username": "alice", "password": testPassword}, http.StatusUnauthorized, "BAD_CREDENTIALS"},
		{"missing password", "/api/v1/auth/login", map[string]interface{}{"username": "alice"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.doJSON(http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, errorCode(response))
		})
	}
}

func TestAdminLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin", models.RoleAdmin, true)

	w, response := env.doJSON(http.MethodPost, "/api/v1/auth/admin/login", "",
		map[string]interface{}{"username": "admin", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(response)
	assert.Equal(t, "admin_dashboard", data["redirect"])
	token := data["access_token"].(string)

	w, response = env.doJSON(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := dataMap(response)
	assert.Equal(t, float64(admin.ID), me["user_id"])
	assert.Equal(t, "admin", me["role"])
	assert.Equal(t, "admin_dashboard", me["redirect"])
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w, response := env.doJSON(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(response))

	w, _ = env.doJSON(http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
