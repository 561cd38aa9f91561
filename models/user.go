package models

import (
	"time"
)

// Account roles
const (
	RoleCustomer     = "customer"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

// User is an account that can sign in. Customer and professional accounts start
// unapproved and blocked until an admin manages them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"not null;index" json:"role"`
	Approve   bool      `gorm:"not null" json:"approve"`
	Blocked   bool      `gorm:"not null" json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsActive reports whether an admin has approved the account and it is not blocked
func (u User) IsActive() bool {
	return u.Approve && !u.Blocked
}

// ValidSelfServiceRole reports whether role may be chosen at registration
func ValidSelfServiceRole(role string) bool {
	return role == RoleCustomer || role == RoleProfessional
}
