package models

import (
	"fmt"
	"time"
)

// Service request statuses
const (
	StatusRequested = "requested"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

var transitions = map[string][]string{
	StatusRequested: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusCompleted},
}

// ServiceRequest is a customer's request for a catalog service, assigned to one professional
type ServiceRequest struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	ServiceID          uint       `gorm:"not null;index:idx_service_requests_pair,priority:2" json:"service_id"`
	CustomerID         uint       `gorm:"not null;index" json:"customer_id"`
	ProfessionalID     uint       `gorm:"not null;index:idx_service_requests_pair,priority:1" json:"professional_id"`
	ServiceStatus      string     `gorm:"not null;default:'requested';index" json:"service_status"`
	DateOfRequest      time.Time  `gorm:"not null" json:"date_of_request"`
	DateOfAcceptReject *time.Time `json:"date_of_accept_reject"`
	DateOfCompletion   *time.Time `json:"date_of_completion"`
	Remarks            string     `gorm:"type:text" json:"remarks"`
	// ActiveKey is set while the request is active and cleared once it is terminal,
	// so the unique index allows one active request per professional and service.
	ActiveKey *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// IsActive reports whether the request is still requested or accepted
func (r ServiceRequest) IsActive() bool {
	return IsActiveStatus(r.ServiceStatus)
}

// IsActiveStatus reports whether status is a non-terminal status
func IsActiveStatus(status string) bool {
	return status == StatusRequested || status == StatusAccepted
}

// CanTransition reports whether a request may move from one status to another
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveKeyFor builds the ActiveKey value for a professional and service pair
func ActiveKeyFor(professionalID, serviceID uint) *string {
	key := fmt.Sprintf("%d:%d", professionalID, serviceID)
	return &key
}
