package testutil

import (
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/middleware"
	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/services"
)

// MockValidatedClaims creates the claims EnsureValidToken stores for a verified token
func MockValidatedClaims(userID uint, role, issuer string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer: issuer,
		},
		CustomClaims: &middleware.CustomClaims{
			UserID: userID,
			Role:   role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID uint, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Set("validated_claims", MockValidatedClaims(userID, role, "household-services-api"))
}

// MockAuthMiddleware authenticates every request as userID without a token
func MockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role)
		c.Next()
	}
}

// IssueToken signs a real access token for user with the configured secret
func IssueToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, _, err := services.NewTokenService(cfg).Issue(user, "", false)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}
