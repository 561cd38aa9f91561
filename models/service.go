package models

import "time"

// Service categories offered in the catalog
var ServiceCategories = []string{"haircut", "cleaning", "electrical", "painting", "plumbing"}

// Service is a catalog entry managed by the admin
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceType string    `gorm:"not null;index" json:"service_type"`
	Name        string    `gorm:"not null" json:"name"`
	Price       float64   `gorm:"not null" json:"price"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// ValidServiceCategory reports whether category is one of ServiceCategories
func ValidServiceCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}
