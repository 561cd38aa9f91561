package testutil

import (
	"os"
	"testing"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the password of every user created by CreateUser
const Password = "secret1"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets the variables config.Load needs for a test run and fails if GO_ENV cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"GO_ENV":       "test",
		"JWT_SECRET":   "integration-secret",
		"JWT_ISSUER":   "household-services-api",
		"JWT_AUDIENCE": "household-services-clients",
		"ADMIN_EMAIL":  "admin@example.com",
		"REDIS_ADDR":   "",
	}
	for key, value := range vars {
		if err := os.Setenv(key, value); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}

	RequireTestEnvironment(t)
}

// OpenDatabase opens a migrated in-memory database and installs it as the application database
func OpenDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := config.OpenTestDatabase()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	config.SetDB(db)
	services.PasswordHashCost = bcrypt.MinCost
	return db
}

// CloseDatabase closes a database opened by OpenDatabase
func CloseDatabase(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// CreateUser inserts an account with Password. Active accounts are approved and unblocked.
func CreateUser(t *testing.T, db *gorm.DB, username, role string, active bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{Username: username, Password: string(hash), Role: role, Approve: active, Blocked: !active}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateService inserts a catalog entry
func CreateService(t *testing.T, db *gorm.DB, name, category string, price float64) *models.Service {
	t.Helper()

	service := models.Service{ServiceType: category, Name: name, Price: price, Description: name + " at home"}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create service %s: %v", name, err)
	}
	return &service
}

// CreateProfessional inserts an active professional with a profile offering serviceID
func CreateProfessional(t *testing.T, db *gorm.DB, username string, serviceID uint) *models.User {
	t.Helper()

	user := CreateUser(t, db, username, models.RoleProfessional, true)
	profile := models.ProfessionalProfile{
		UserID:      user.ID,
		FullName:    username + " Jones",
		ServiceType: serviceID,
		Experience:  2,
		Address:     "Anna Salai, Chennai",
		PinCode:     "600001",
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile for %s: %v", username, err)
	}
	return user
}

// CreateCustomer inserts an active customer with a profile
func CreateCustomer(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := CreateUser(t, db, username, models.RoleCustomer, true)
	profile := models.CustomerProfile{UserID: user.ID, FullName: username + " Smith", Address: "Marine Drive, Mumbai", PinCode: "400001"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile for %s: %v", username, err)
	}
	return user
}
