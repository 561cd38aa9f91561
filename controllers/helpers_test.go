package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret1"

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	cfg     *config.Config
	router  *gin.Engine
	uploads *services.MockFileStorage
	exports *services.MockFileStorage
	cache   *services.MockCache
	queue   *services.MockTaskQueue
	chat    *services.MockNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	services.PasswordHashCost = bcrypt.MinCost

	db, err := config.OpenTestDatabase()
	require.NoError(t, err)

	cfg := &config.Config{
		GoEnv:           "test",
		JWTSecret:       "test-secret",
		JWTIssuer:       "household-services-api",
		JWTAudience:     "household-services-clients",
		TokenTTL:        time.Hour,
		AdminEmail:      "admin@example.com",
		SummaryCacheTTL: time.Minute,
	}

	env := &testEnv{
		t:       t,
		db:      db,
		cfg:     cfg,
		uploads: services.NewMockFileStorage(),
		exports: services.NewMockFileStorage(),
		cache:   services.NewMockCache(),
		queue:   services.NewMockTaskQueue(),
		chat:    services.NewMockNotifier(),
	}

	previousDB, previousCfg := config.GetDB(), config.GetConfig()
	previousUploads, previousExports := services.GetUploadStorage(), services.GetExportStorage()
	previousCache, previousQueue, previousChat := services.GetCache(), services.GetTaskQueue(), services.GetChatNotifier()

	config.SetDB(db)
	config.SetConfig(cfg)
	services.SetUploadStorage(env.uploads)
	services.SetExportStorage(env.exports)
	services.SetCache(env.cache)
	services.SetTaskQueue(env.queue)
	services.SetChatNotifier(env.chat)

	t.Cleanup(func() {
		config.SetDB(previousDB)
		config.SetConfig(previousCfg)
		services.SetUploadStorage(previousUploads)
		services.SetExportStorage(previousExports)
		services.SetCache(previousCache)
		services.SetTaskQueue(previousQueue)
		services.SetChatNotifier(previousChat)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env.router = gin.New()
	RegisterRoutes(env.router.Group("/api/v1"), cfg)
	return env
}

func (e *testEnv) createUser(username, role string, active bool) *models.User {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)

	user := models.User{Username: username, Password: string(hash), Role: role, Approve: active, Blocked: !active}
	require.NoError(e.t, e.db.Create(&user).Error)
	return &user
}

func (e *testEnv) createService(name, category string, price float64) *models.Service {
	e.t.Helper()
	service := models.Service{ServiceType: category, Name: name, Price: price, Description: name + " at home"}
	require.NoError(e.t, e.db.Create(&service).Error)
	return &service
}

func (e *testEnv) createCustomer(username string) *models.User {
	e.t.Helper()
	user := e.createUser(username, models.RoleCustomer, true)
	profile := models.CustomerProfile{UserID: user.ID, FullName: username + " Smith", Address: "Marine Drive, Mumbai", PinCode: "400001"}
	require.NoError(e.t, e.db.Create(&profile).Error)
	return user
}

func (e *testEnv) createProfessional(username string, serviceID uint) *models.User {
	e.t.Helper()
	user := e.createUser(username, models.RoleProfessional, true)
	profile := models.ProfessionalProfile{
		UserID:      user.ID,
		FullName:    username + " Jones",
		ServiceType: serviceID,
		Experience:  4,
		Address:     "Anna Salai, Chennai",
		PinCode:     "600001",
	}
	require.NoError(e.t, e.db.Create(&profile).Error)
	return user
}

func (e *testEnv) createCompletedRequest(serviceID, customerID, professionalID uint) *models.ServiceRequest {
	e.t.Helper()
	completedAt := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	request := models.ServiceRequest{
		ServiceID:        serviceID,
		CustomerID:       customerID,
		ProfessionalID:   professionalID,
		ServiceStatus:    models.StatusCompleted,
		DateOfRequest:    completedAt.Add(-24 * time.Hour),
		DateOfCompletion: &completedAt,
		Remarks:          "done",
	}
	require.NoError(e.t, e.db.Create(&request).Error)
	return &request
}

func (e *testEnv) tokenFor(user *models.User) string {
	e.t.Helper()
	token, _, err := services.NewTokenService(e.cfg).Issue(user, "", false)
	require.NoError(e.t, err)
	return token
}

// doJSON sends body as JSON and decodes the response envelope
func (e *testEnv) doJSON(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.serve(req, token)
}

// doMultipart sends fields and an optional file as multipart/form-data
func (e *testEnv) doMultipart(method, path, token string, fields map[string]string, filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	e.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(e.t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(e.t, err)
		_, err = part.Write(content)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, writer.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.serve(req, token)
}

func (e *testEnv) serve(req *http.Request, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func errorCode(response map[string]interface{}) string {
	body, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := body["code"].(string)
	return code
}

func dataMap(response map[string]interface{}) map[string]interface{} {
	data, _ := response["data"].(map[string]interface{})
	return data
}

func dataList(response map[string]interface{}) []interface{} {
	data, _ := response["data"].([]interface{})
	return data
}
