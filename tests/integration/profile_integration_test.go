package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/controllers"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ProfileIntegrationTestSuite tests credential uploads against local disk storage
type ProfileIntegrationTestSuite struct {
	suite.Suite
	db        *gorm.DB
	uploadDir string
	service   *models.Service
}

// SetupSuite runs once before all tests
func (suite *ProfileIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *ProfileIntegrationTestSuite) SetupTest() {
	suite.db = testutil.OpenDatabase(suite.T())
	suite.uploadDir = suite.T().TempDir()
	services.SetUploadStorage(services.NewLocalFileStorage(suite.uploadDir))
	suite.service = testutil.CreateService(suite.T(), suite.db, "Plumbing Fix", "plumbing", 300)
}

// TearDownTest runs after each test
func (suite *ProfileIntegrationTestSuite) TearDownTest() {
	services.SetUploadStorage(nil)
	testutil.CloseDatabase(suite.db)
}

func (suite *ProfileIntegrationTestSuite) router(userID uint, role string) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1", testutil.MockAuthMiddleware(userID, role))
	v1.PUT("/professional/profile", controllers.UpdateProfessionalProfile)
	v1.GET("/professional/profile", controllers.GetProfessionalProfile)
	v1.GET("/files/:filename", controllers.DownloadFile)
	return router
}

func (suite *ProfileIntegrationTestSuite) upload(router *gin.Engine, filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"full_name":    "Bobby Jones",
		"service_type": "1",
		"experience":   "7",
		"address":      "Park Street, Kolkata",
		"pin_code":     "700016",
	}
	for key, value := range fields {
		suite.NoError(writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		suite.NoError(err)
		_, err = part.Write(content)
		suite.NoError(err)
	}
	suite.NoError(writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/professional/profile", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestUploadCredential_StoredOnDisk tests that the credential lands in the upload directory and can be downloaded
func (suite *ProfileIntegrationTestSuite) TestUploadCredential_StoredOnDisk() {
	professional := testutil.CreateUser(suite.T(), suite.db, "bobby", models.RoleProfessional, false)
	router := suite.router(professional.ID, models.RoleProfessional)
	content := []byte("\x89PNG\r\n\x1a\nfake image")

	w, response := suite.upload(router, "id card.png", content)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "/api/v1/files/id_card.png", response["data"].(map[string]interface{})["file_url"])

	stored, err := os.ReadFile(filepath.Join(suite.uploadDir, "id_card.png"))
	suite.NoError(err)
	assert.Equal(suite.T(), content, stored)

	var profile models.ProfessionalProfile
	suite.NoError(suite.db.Where("user_id = ?", professional.ID).First(&profile).Error)
	assert.Equal(suite.T(), "id_card.png", profile.Filename)
	assert.NotNil(suite.T(), profile.UploadedAt)

	w = httptest.NewRecorder()
	admin := suite.router(1, models.RoleAdmin)
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/files/id_card.png", nil))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "image/png", w.Header().Get("Content-Type"))
	assert.Equal(suite.T(), content, w.Body.Bytes())
}

// TestUploadCredential_ReplacesFile tests that a new upload replaces the stored filename
func (suite *ProfileIntegrationTestSuite) TestUploadCredential_ReplacesFile() {
	professional := testutil.CreateUser(suite.T(), suite.db, "bobby", models.RoleProfessional, false)
	router := suite.router(professional.ID, models.RoleProfessional)

	w, _ := suite.upload(router, "first.pdf", []byte("%PDF first"))
	suite.Require().Equal(http.StatusOK, w.Code)
	w, _ = suite.upload(router, "second.pdf", []byte("%PDF second"))
	suite.Require().Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/professional/profile", nil))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "second.pdf", data["profile"].(map[string]interface{})["filename"])
	assert.Equal(suite.T(), "/api/v1/files/second.pdf", data["file_url"])

	var count int64
	suite.NoError(suite.db.Model(&models.ProfessionalProfile{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(1), count)
}

// TestUploadCredential_RejectedFormat tests that a rejected file leaves no trace
func (suite *ProfileIntegrationTestSuite) TestUploadCredential_RejectedFormat() {
	professional := testutil.CreateUser(suite.T(), suite.db, "bobby", models.RoleProfessional, false)

	w, response := suite.upload(suite.router(professional.ID, models.RoleProfessional), "script.sh", []byte("#!/bin/sh"))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "INVALID_FILE_FORMAT", errorCodeOf(response))

	entries, err := os.ReadDir(suite.uploadDir)
	suite.NoError(err)
	assert.Empty(suite.T(), entries)
}

// TestProfileIntegrationSuite runs the profile integration test suite
func TestProfileIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ProfileIntegrationTestSuite))
}
