package jobs

import (
	"testing"
	"time"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "not-a-real-hash", Role: role, Approve: true, Blocked: false}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createService(t *testing.T, db *gorm.DB, name string, price float64) *models.Service {
	t.Helper()
	service := models.Service{ServiceType: "cleaning", Name: name, Price: price, Description: name}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func createCustomer(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := createUser(t, db, username, models.RoleCustomer)
	require.NoError(t, db.Create(&models.CustomerProfile{UserID: user.ID, FullName: username + " Smith", Address: "Mumbai", PinCode: "400001"}).Error)
	return user
}

func createProfessional(t *testing.T, db *gorm.DB, username string, serviceID uint) *models.User {
	t.Helper()
	user := createUser(t, db, username, models.RoleProfessional)
	profile := models.ProfessionalProfile{UserID: user.ID, FullName: username + " Jones", ServiceType: serviceID, Address: "Chennai", PinCode: "600001"}
	require.NoError(t, db.Create(&profile).Error)
	return user
}

func createRequest(t *testing.T, db *gorm.DB, serviceID, customerID, professionalID uint, status string, completedAt *time.Time) *models.ServiceRequest {
	t.Helper()
	request := models.ServiceRequest{
		ServiceID:        serviceID,
		CustomerID:       customerID,
		ProfessionalID:   professionalID,
		ServiceStatus:    status,
		DateOfRequest:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		DateOfCompletion: completedAt,
	}
	require.NoError(t, db.Create(&request).Error)
	return &request
}

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}
