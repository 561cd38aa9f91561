package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordHashCost is the bcrypt cost used for new password hashes
var PasswordHashCost = bcrypt.DefaultCost

// RegisterInput holds the fields of a self-service registration
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

// ManageUserInput holds the account flags an admin may change. Nil fields are left untouched.
type ManageUserInput struct {
	Approve *bool
	Blocked *bool
}

// LoginResult is the outcome of a successful authentication
type LoginResult struct {
	AccessToken     string    `json:"access_token"`
	TokenType       string    `json:"token_type"`
	ExpiresAt       time.Time `json:"expires_at"`
	UserID          uint      `json:"user_id"`
	Role            string    `json:"role"`
	Redirect        string    `json:"redirect"`
	ProfileRequired bool      `json:"profile_required"`
}

// IdentityService manages accounts and authenticates credentials
type IdentityService struct {
	db     *gorm.DB
	tokens *TokenService
}

// Account field limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 15
	MinPasswordLength = 5
	MaxPasswordLength = 80
)

// NewIdentityService creates an identity service
func NewIdentityService(db *gorm.DB, tokens *TokenService) *IdentityService {
	return &IdentityService{db: db, tokens: tokens}
}

// Register creates a customer or professional account. New accounts are unapproved and blocked.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if len(in.Username) < MinUsernameLength || len(in.Username) > MaxUsernameLength {
		return nil, invalidInput(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if len(in.Password) < MinPasswordLength || len(in.Password) > MaxPasswordLength {
		return nil, invalidInput(fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}
	if !models.ValidSelfServiceRole(in.Role) {
		return nil, invalidInput("Role must be 'customer' or 'professional'")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, internalError("Failed to check username", err)
	}
	if count > 0 {
		return nil, newError(KindConflict, "USERNAME_TAKEN", "Username already exists!")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, internalError("Failed to hash password", err)
	}

	user := models.User{
		Username: in.Username,
		Password: hash,
		Role:     in.Role,
		Approve:  false,
		Blocked:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindConflict, "USERNAME_TAKEN", "Username already exists!")
		}
		return nil, internalError("Failed to create user", err)
	}

	utils.GetLogger().Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return &user, nil
}

// Authenticate verifies credentials for a user whose role is in allowedRoles and issues a token.
// Customers and professionals without a profile are let in with a profile-setup routing hint.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string, allowedRoles []string) (*LoginResult, error) {
	badCredentials := newError(KindUnauthorized, "BAD_CREDENTIALS", "Bad username or password")

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND role IN ?", strings.TrimSpace(username), allowedRoles).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, badCredentials
	}
	if err != nil {
		return nil, internalError("Failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, badCredentials
	}

	if user.Role == models.RoleAdmin {
		return s.issue(&user, RedirectAdminDashboard, false)
	}

	hasProfile, err := s.profileExists(ctx, &user)
	if err != nil {
		return nil, err
	}
	if !hasProfile {
		return s.issue(&user, user.Role+"_profile", true)
	}
	if !user.Approve {
		return nil, newError(KindUnauthorized, "ACCOUNT_NOT_APPROVED", "Your account is not approved yet! Please wait for the admin to approve.")
	}
	if user.Blocked {
		return nil, newError(KindUnauthorized, "ACCOUNT_BLOCKED", "Your account is blocked! Please contact the admin.")
	}
	return s.issue(&user, user.Role+"_dashboard", false)
}

// Login authenticates a customer or professional
func (s *IdentityService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	return s.Authenticate(ctx, username, password, []string{models.RoleCustomer, models.RoleProfessional})
}

// AdminLogin authenticates the admin
func (s *IdentityService) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	return s.Authenticate(ctx, username, password, []string{models.RoleAdmin})
}

// GetUser loads a user by id
func (s *IdentityService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "USER_NOT_FOUND", "User not found")
	}
	if err != nil {
		return nil, internalError("Failed to load user", err)
	}
	return &user, nil
}

// ManageUser approves/rejects or blocks/unblocks a customer or professional account
func (s *IdentityService) ManageUser(ctx context.Context, userID uint, in ManageUserInput) (*models.User, error) {
	if in.Approve == nil && in.Blocked == nil {
		return nil, invalidInput("At least one of approve or blocked is required")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, newError(KindForbidden, "FORBIDDEN", "Admin accounts cannot be managed")
	}

	updates := map[string]interface{}{}
	if in.Approve != nil {
		updates["approve"] = *in.Approve
	}
	if in.Blocked != nil {
		updates["blocked"] = *in.Blocked
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, internalError("Failed to update user", err)
	}
	if user, err = s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("user managed",
		zap.Uint("user_id", user.ID),
		zap.Bool("approve", user.Approve),
		zap.Bool("blocked", user.Blocked))
	return user, nil
}

// EnsureAdmin provisions the admin account when it does not exist yet
func (s *IdentityService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("admin username and password are required")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{Username: username, Password: hash, Role: models.RoleAdmin, Approve: true, Blocked: false}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	utils.GetLogger().Info("admin account provisioned", zap.String("username", username))
	return nil
}

func (s *IdentityService) profileExists(ctx context.Context, user *models.User) (bool, error) {
	var model interface{} = &models.CustomerProfile{}
	if user.Role == models.RoleProfessional {
		model = &models.ProfessionalProfile{}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return false, internalError("Failed to load profile", err)
	}
	return count > 0, nil
}

func (s *IdentityService) issue(user *models.User, redirect string, profileRequired bool) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(user, redirect, profileRequired)
	if err != nil {
		return nil, internalError("Failed to issue access token", err)
	}
	return &LoginResult{
		AccessToken:     token,
		TokenType:       "Bearer",
		ExpiresAt:       expiresAt,
		UserID:          user.ID,
		Role:            user.Role,
		Redirect:        redirect,
		ProfileRequired: profileRequired,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isUniqueViolation matches unique constraint errors from both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
