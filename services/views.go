package services

import (
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"gorm.io/gorm"
)

// RequestView is a service request joined with the names a client needs to display it
type RequestView struct {
	ID                 uint       `json:"id"`
	ServiceID          uint       `json:"service_id"`
	ServiceName        string     `json:"service_name"`
	ServicePrice       float64    `json:"service_price"`
	CustomerID         uint       `json:"customer_id"`
	CustomerName       string     `json:"customer_name"`
	CustomerAddress    string     `json:"customer_address"`
	CustomerPinCode    string     `json:"customer_pin_code"`
	ProfessionalID     uint       `json:"professional_id"`
	ProfessionalName   string     `json:"professional_name"`
	ServiceStatus      string     `json:"service_status"`
	DateOfRequest      time.Time  `json:"date_of_request"`
	DateOfAcceptReject *time.Time `json:"date_of_accept_reject"`
	DateOfCompletion   *time.Time `json:"date_of_completion"`
	Remarks            string     `json:"remarks"`
}

// requestViews starts a query over service_requests (aliased sr) joined with services (s),
// customer_profiles (cp) and professional_profiles (pp). Joins are outer so requests that
// point at deleted catalog entries are still returned.
func requestViews(db *gorm.DB) *gorm.DB {
	return db.Table("service_requests AS sr").
		Select(`sr.id, sr.service_id,
			COALESCE(s.name, '') AS service_name,
			COALESCE(s.price, 0) AS service_price,
			sr.customer_id,
			COALESCE(cp.full_name, '') AS customer_name,
			COALESCE(cp.address, '') AS customer_address,
			COALESCE(cp.pin_code, '') AS customer_pin_code,
			sr.professional_id,
			COALESCE(pp.full_name, '') AS professional_name,
			sr.service_status, sr.date_of_request, sr.date_of_accept_reject, sr.date_of_completion,
			COALESCE(sr.remarks, '') AS remarks`).
		Joins("LEFT JOIN services s ON s.id = sr.service_id").
		Joins("LEFT JOIN customer_profiles cp ON cp.user_id = sr.customer_id").
		Joins("LEFT JOIN professional_profiles pp ON pp.user_id = sr.professional_id")
}

// CustomerView is a customer account with its profile fields, empty when no profile exists
type CustomerView struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
	Approve  bool   `json:"approve"`
	Blocked  bool   `json:"blocked"`
}

// ProfessionalView is a professional account with its profile and offered service
type ProfessionalView struct {
	UserID      uint       `json:"user_id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	ServiceID   uint       `json:"service_id"`
	ServiceName string     `json:"service_name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Experience  int        `json:"experience"`
	Address     string     `json:"address"`
	PinCode     string     `json:"pin_code"`
	Reviews     float64    `json:"reviews"`
	Filename    string     `json:"filename"`
	FileURL     string     `json:"file_url"`
	UploadedAt  *time.Time `json:"uploaded_at"`
	Approve     bool       `json:"approve"`
	Blocked     bool       `json:"blocked"`
}

// customerViews selects customer users (u) with their profile (cp)
func customerViews(db *gorm.DB) *gorm.DB {
	return db.Table("users AS u").
		Select(`u.id AS user_id, u.username,
			COALESCE(cp.full_name, '') AS full_name,
			COALESCE(cp.address, '') AS address,
			COALESCE(cp.pin_code, '') AS pin_code,
			u.approve, u.blocked`).
		Joins("LEFT JOIN customer_profiles cp ON cp.user_id = u.id").
		Where("u.role = ?", models.RoleCustomer)
}

// professionalViews selects professional users (u) with their profile (pp) and service (s)
func professionalViews(db *gorm.DB) *gorm.DB {
	return db.Table("users AS u").
		Select(`u.id AS user_id, u.username,
			COALESCE(pp.full_name, '') AS full_name,
			COALESCE(pp.service_type, 0) AS service_id,
			COALESCE(s.name, '') AS service_name,
			COALESCE(s.description, '') AS description,
			COALESCE(s.price, 0) AS price,
			COALESCE(pp.experience, 0) AS experience,
			COALESCE(pp.address, '') AS address,
			COALESCE(pp.pin_code, '') AS pin_code,
			COALESCE(pp.reviews, 0) AS reviews,
			COALESCE(pp.filename, '') AS filename,
			pp.uploaded_at,
			u.approve, u.blocked`).
		Joins("LEFT JOIN professional_profiles pp ON pp.user_id = u.id").
		Joins("LEFT JOIN services s ON s.id = pp.service_type").
		Where("u.role = ?", models.RoleProfessional)
}

func withFileURLs(views []ProfessionalView) []ProfessionalView {
	for i := range views {
		views[i].FileURL = utils.GetFileURL(views[i].Filename)
	}
	return views
}
