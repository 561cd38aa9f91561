package models

import "time"

// CustomerProfile holds the contact details of a customer account
type CustomerProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	PinCode   string    `gorm:"not null;index" json:"pin_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CustomerProfile model
func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

// ProfessionalProfile describes a service professional. ServiceType references Service.ID.
type ProfessionalProfile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName    string     `gorm:"not null" json:"full_name"`
	ServiceType uint       `gorm:"not null;index" json:"service_type"`
	Experience  int        `gorm:"not null;default:0" json:"experience"`
	Address     string     `gorm:"type:text;not null" json:"address"`
	PinCode     string     `gorm:"not null;index" json:"pin_code"`
	Filename    string     `json:"filename"`
	UploadedAt  *time.Time `json:"uploaded_at"`
	Reviews     float64    `gorm:"not null;default:0" json:"reviews"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the ProfessionalProfile model
func (ProfessionalProfile) TableName() string {
	return "professional_profiles"
}
