package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kendall-kelly/household-services-api/models"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerProfileInput holds the editable customer profile fields
type CustomerProfileInput struct {
	FullName string
	Address  string
	PinCode  string
}

// ProfessionalProfileInput holds the editable professional profile fields and an optional credential file
type ProfessionalProfileInput struct {
	FullName    string
	ServiceType uint
	Experience  int
	Address     string
	PinCode     string
	File        *multipart.FileHeader
}

// ProfessionalProfileView is a professional profile plus the catalog choices for service_type
type ProfessionalProfileView struct {
	Profile  models.ProfessionalProfile `json:"profile"`
	FileURL  string                     `json:"file_url"`
	Services []ServiceOption            `json:"services"`
}

// ProfileService manages customer and professional profiles. Callers pass the user id from their claims.
type ProfileService struct {
	db      *gorm.DB
	storage FileStorage
	catalog *CatalogService
	now     func() time.Time
}

// NewProfileService creates a profile service storing credential files in storage
func NewProfileService(db *gorm.DB, storage FileStorage) *ProfileService {
	return &ProfileService{db: db, storage: storage, catalog: NewCatalogService(db), now: time.Now}
}

// GetCustomerProfile returns the customer's profile, or an empty one if none was saved yet
func (s *ProfileService) GetCustomerProfile(ctx context.Context, userID uint) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CustomerProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, internalError("Failed to load profile", err)
	}
	return &profile, nil
}

// UpsertCustomerProfile creates or replaces the customer's profile
func (s *ProfileService) UpsertCustomerProfile(ctx context.Context, userID uint, in CustomerProfileInput) (*models.CustomerProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Address = strings.TrimSpace(in.Address)
	in.PinCode = strings.TrimSpace(in.PinCode)
	if in.FullName == "" || in.Address == "" || in.PinCode == "" {
		return nil, invalidInput("full_name, address and pin_code are required")
	}

	db := s.db.WithContext(ctx)
	var profile models.CustomerProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("Failed to load profile", err)
	}

	profile.UserID = userID
	profile.FullName = in.FullName
	profile.Address = in.Address
	profile.PinCode = in.PinCode
	if err := db.Save(&profile).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindConflict, "PROFILE_EXISTS", "Profile was created concurrently, please retry")
		}
		return nil, internalError("Failed to save profile", err)
	}

	utils.GetLogger().Info("customer profile saved", zap.Uint("user_id", userID))
	return &profile, nil
}

// GetProfessionalProfile returns the professional's profile (empty if none was saved yet) and the catalog options
func (s *ProfileService) GetProfessionalProfile(ctx context.Context, userID uint) (*ProfessionalProfileView, error) {
	view := &ProfessionalProfileView{Profile: models.ProfessionalProfile{UserID: userID}}

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&view.Profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("Failed to load profile", err)
	}
	view.FileURL = utils.GetFileURL(view.Profile.Filename)

	options, err := s.catalog.Options(ctx)
	if err != nil {
		return nil, err
	}
	view.Services = options
	return view, nil
}

// UpsertProfessionalProfile creates or replaces the professional's profile. The credential file is
// validated before anything is written and, when absent, the previously stored filename is kept.
func (s *ProfileService) UpsertProfessionalProfile(ctx context.Context, userID uint, in ProfessionalProfileInput) (*models.ProfessionalProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Address = strings.TrimSpace(in.Address)
	in.PinCode = strings.TrimSpace(in.PinCode)
	if in.FullName == "" || in.Address == "" || in.PinCode == "" || in.ServiceType == 0 {
		return nil, invalidInput("full_name, service_type, experience, address and pin_code are required")
	}
	if in.Experience < 0 {
		return nil, invalidInput("experience cannot be negative")
	}

	var filename string
	if in.File != nil {
		if err := utils.ValidateCredentialFile(in.File); err != nil {
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				return nil, newError(KindInvalidInput, uploadErr.Code, uploadErr.Message)
			}
			return nil, invalidInput(err.Error())
		}
		filename = utils.CredentialFilename(in.File.Filename)
	}

	db := s.db.WithContext(ctx)
	var services int64
	if err := db.Model(&models.Service{}).Where("id = ?", in.ServiceType).Count(&services).Error; err != nil {
		return nil, internalError("Failed to look up service", err)
	}
	if services == 0 {
		return nil, newError(KindInvalidInput, "INVALID_SERVICE_TYPE", "service_type must reference an existing service")
	}

	var profile models.ProfessionalProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("Failed to load profile", err)
	}

	if in.File != nil {
		if err := s.saveCredential(ctx, in.File, filename); err != nil {
			return nil, err
		}
		uploadedAt := s.now()
		profile.Filename = filename
		profile.UploadedAt = &uploadedAt
	}

	profile.UserID = userID
	profile.FullName = in.FullName
	profile.ServiceType = in.ServiceType
	profile.Experience = in.Experience
	profile.Address = in.Address
	profile.PinCode = in.PinCode
	if err := db.Save(&profile).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindConflict, "PROFILE_EXISTS", "Profile was created concurrently, please retry")
		}
		return nil, internalError("Failed to save profile", err)
	}

	utils.GetLogger().Info("professional profile saved",
		zap.Uint("user_id", userID),
		zap.Uint("service_type", in.ServiceType),
		zap.String("filename", profile.Filename))
	return &profile, nil
}

func (s *ProfileService) saveCredential(ctx context.Context, fileHeader *multipart.FileHeader, filename string) error {
	file, err := fileHeader.Open()
	if err != nil {
		return newError(KindInvalidInput, "INVALID_FILE", "Failed to read uploaded file")
	}
	defer file.Close()

	if _, err := s.storage.Save(ctx, filename, file, utils.ContentTypeFor(filename)); err != nil {
		return &ServiceError{Kind: KindInternal, Code: "UPLOAD_FAILED", Message: "Failed to store uploaded file", Err: err}
	}
	return nil
}

// OpenCredential opens a stored credential file by name
func (s *ProfileService) OpenCredential(ctx context.Context, filename string) (io.ReadCloser, error) {
	name := utils.SanitizeFilename(filename)
	if name == "" || name != filename {
		return nil, newError(KindNotFound, "FILE_NOT_FOUND", "File not found")
	}
	rc, err := s.storage.Open(ctx, name)
	if errors.Is(err, ErrFileNotFound) {
		return nil, newError(KindNotFound, "FILE_NOT_FOUND", "File not found")
	}
	if err != nil {
		return nil, &ServiceError{Kind: KindInternal, Code: "STORAGE_ERROR", Message: "Failed to open file", Err: err}
	}
	return rc, nil
}
