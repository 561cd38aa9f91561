package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomClaims contains the session data issued at login.
type CustomClaims struct {
	UserID          uint   `json:"user_id"`
	Role            string `json:"role"`
	Redirect        string `json:"redirect"`
	ProfileRequired bool   `json:"profile_required"`
}

// Validate rejects tokens without a user or with an unknown role.
func (c CustomClaims) Validate(ctx context.Context) error {
	if c.UserID == 0 {
		return errors.New("token has no user_id")
	}
	switch c.Role {
	case models.RoleCustomer, models.RoleProfessional, models.RoleAdmin:
		return nil
	default:
		return fmt.Errorf("token has unknown role %q", c.Role)
	}
}

// HasRole checks whether the claims carry one of roles.
func (c CustomClaims) HasRole(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		utils.GetLogger().Fatal("Failed to set up the jwt validator", zap.Error(err))
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		utils.GetLogger().Info("Encountered error while validating JWT", zap.String("path", r.URL.Path), zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			utils.GetLogger().Warn("Failed to write error response", zap.Error(writeErr))
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			authenticated = true

			// Store the validated claims in Gin context
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims := token.CustomClaims.(*CustomClaims)
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("validated_claims", token)
			c.Request = r

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler has already answered
		if !authenticated {
			c.Abort()
		}
	}
}

// GetUserID extracts the authenticated user's id from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok || id == 0 {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not valid"}
	}

	return id, nil
}

// GetRole extracts the authenticated user's role from the Gin context
func GetRole(c *gin.Context) (string, error) {
	role, exists := c.Get("role")
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	roleStr, ok := role.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a string"}
	}

	return roleStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetSessionClaims extracts the session part of the validated claims
func GetSessionClaims(c *gin.Context) (*CustomClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return custom, nil
}

// RequireRole is a middleware that checks if the token belongs to one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetSessionClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			c.Abort()
			return
		}

		if !claims.HasRole(roles...) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED_ROLE",
					"message": "Unauthorized access",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireActiveAccount re-reads the caller's account and stops unapproved or blocked accounts
// even while their token is still valid
func RequireActiveAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			abortUnauthorized(c, "MISSING_USER_ID", "User ID not found in token")
			return
		}

		var user models.User
		err = config.GetDB().WithContext(c.Request.Context()).First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortUnauthorized(c, "USER_NOT_FOUND", "User no longer exists")
			return
		}
		if err != nil {
			utils.GetLogger().Error("Failed to load account", zap.Uint("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load account",
				},
			})
			c.Abort()
			return
		}

		if user.Role == models.RoleAdmin {
			c.Next()
			return
		}
		if !user.Approve {
			abortUnauthorized(c, "ACCOUNT_NOT_APPROVED", "Your account is not approved yet! Please wait for the admin to approve.")
			return
		}
		if user.Blocked {
			abortUnauthorized(c, "ACCOUNT_BLOCKED", "Your account is blocked! Please contact the admin.")
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
