package services

import (
	"bytes"
	"mime/multipart"
	"strconv"
	"testing"
	"time"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	PasswordHashCost = bcrypt.MinCost

	db, err := config.OpenTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string, active bool) *models.User {
	t.Helper()
	hash, err := hashPassword(testPassword)
	require.NoError(t, err)

	user := models.User{Username: username, Password: hash, Role: role, Approve: active, Blocked: !active}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createService(t *testing.T, db *gorm.DB, name, category string, price float64) *models.Service {
	t.Helper()
	service := models.Service{ServiceType: category, Name: name, Price: price, Description: name + " at home"}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func createCustomer(t *testing.T, db *gorm.DB, username, address, pin string) *models.User {
	t.Helper()
	user := createUser(t, db, username, models.RoleCustomer, true)
	profile := models.CustomerProfile{UserID: user.ID, FullName: username + " Smith", Address: address, PinCode: pin}
	require.NoError(t, db.Create(&profile).Error)
	return user
}

func createProfessional(t *testing.T, db *gorm.DB, username string, serviceID uint, address, pin string) *models.User {
	t.Helper()
	user := createUser(t, db, username, models.RoleProfessional, true)
	profile := models.ProfessionalProfile{
		UserID:      user.ID,
		FullName:    username + " Jones",
		ServiceType: serviceID,
		Experience:  3,
		Address:     address,
		PinCode:     pin,
	}
	require.NoError(t, db.Create(&profile).Error)
	return user
}

func setAccount(t *testing.T, db *gorm.DB, userID uint, approve, blocked bool) {
	t.Helper()
	err := db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"approve": approve, "blocked": blocked}).Error
	require.NoError(t, err)
}

func setReviews(t *testing.T, db *gorm.DB, professionalID uint, reviews float64) {
	t.Helper()
	require.NoError(t, db.Model(&models.ProfessionalProfile{}).Where("user_id = ?", professionalID).Update("reviews", reviews).Error)
}

func createCompletedRequest(t *testing.T, db *gorm.DB, serviceID, customerID, professionalID uint, completedAt time.Time) *models.ServiceRequest {
	t.Helper()
	requestedAt := completedAt.Add(-48 * time.Hour)
	answeredAt := completedAt.Add(-24 * time.Hour)
	request := models.ServiceRequest{
		ServiceID:          serviceID,
		CustomerID:         customerID,
		ProfessionalID:     professionalID,
		ServiceStatus:      models.StatusCompleted,
		DateOfRequest:      requestedAt,
		DateOfAcceptReject: &answeredAt,
		DateOfCompletion:   &completedAt,
		Remarks:            "great job",
	}
	require.NoError(t, db.Create(&request).Error)
	return &request
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func assertServiceError(t *testing.T, err error, kind ErrorKind, code string) {
	t.Helper()
	var svcErr *ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, kind, svcErr.Kind)
		assert.Equal(t, code, svcErr.Code)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
