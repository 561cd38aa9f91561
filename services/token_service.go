package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/models"
)

// Routing hints carried in session claims
const (
	RedirectCustomerProfile       = "customer_profile"
	RedirectCustomerDashboard     = "customer_dashboard"
	RedirectProfessionalProfile   = "professional_profile"
	RedirectProfessionalDashboard = "professional_dashboard"
	RedirectAdminDashboard        = "admin_dashboard"
)

// SessionClaims is the payload of an issued access token
type SessionClaims struct {
	UserID          uint   `json:"user_id"`
	Role            string `json:"role"`
	Redirect        string `json:"redirect,omitempty"`
	ProfileRequired bool   `json:"profile_required"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 access tokens that the token middleware validates
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from the application configuration
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}
}

// Issue signs a token for user carrying the given routing hint
func (s *TokenService) Issue(user *models.User, redirect string, profileRequired bool) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("token signing secret is not configured")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := SessionClaims{
		UserID:          user.ID,
		Role:            user.Role,
		Redirect:        redirect,
		ProfileRequired: profileRequired,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
