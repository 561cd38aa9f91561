package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/kendall-kelly/household-services-api/models"
	"gorm.io/gorm"
)

// Search types
const (
	SearchTypeService        = "service"
	SearchTypeLocation       = "location"
	SearchTypePin            = "pin"
	SearchTypeDate           = "date"
	SearchTypeCustomer       = "customer"
	SearchTypeProfessional   = "professional"
	SearchTypeServiceRequest = "service_request"
)

// NoResultsMessage accompanies a search without matches
const NoResultsMessage = "No results found for your search."

// SearchResult is the outcome of a search. Found is false, and Message set, when nothing matched.
type SearchResult[T any] struct {
	Type    string `json:"type"`
	Query   string `json:"query"`
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
	Results []T    `json:"results"`
}

func newSearchResult[T any](searchType, query string, results []T) *SearchResult[T] {
	if results == nil {
		results = []T{}
	}
	result := &SearchResult[T]{Type: searchType, Query: query, Found: len(results) > 0, Results: results}
	if !result.Found {
		result.Message = NoResultsMessage
	}
	return result
}

// SearchService runs the role-specific searches. Matching is a case-insensitive substring match.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a search service
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// SearchProfessionals finds available professionals for a customer by service name, location or pin code
func (s *SearchService) SearchProfessionals(ctx context.Context, searchType, query string) (*SearchResult[ProfessionalView], error) {
	query = strings.TrimSpace(query)
	if err := validateSearchTerm(searchType, query, SearchTypeService, SearchTypeLocation, SearchTypePin); err != nil {
		return nil, err
	}

	q := professionalViews(s.db.WithContext(ctx)).
		Where("pp.id IS NOT NULL AND u.approve = ? AND u.blocked = ?", true, false)
	pattern := likePattern(query)
	switch searchType {
	case SearchTypeService:
		q = q.Where(ilike("s.name"), pattern)
	case SearchTypeLocation:
		q = q.Where(ilike("pp.address"), pattern)
	case SearchTypePin:
		q = q.Where(ilike("pp.pin_code"), pattern)
	}

	results := []ProfessionalView{}
	if err := q.Order("pp.reviews DESC, u.id").Scan(&results).Error; err != nil {
		return nil, internalError("Failed to search professionals", err)
	}
	return newSearchResult(searchType, query, withFileURLs(results)), nil
}

// SearchAssignedRequests finds the professional's own requests by request date or the customer's location or pin code
func (s *SearchService) SearchAssignedRequests(ctx context.Context, professionalID uint, searchType, query string) (*SearchResult[RequestView], error) {
	query = strings.TrimSpace(query)
	if err := validateSearchTerm(searchType, query, SearchTypeDate, SearchTypeLocation, SearchTypePin); err != nil {
		return nil, err
	}

	q := requestViews(s.db.WithContext(ctx)).Where("sr.professional_id = ?", professionalID)
	switch searchType {
	case SearchTypeDate:
		day, _ := time.Parse("2006-01-02", query)
		q = q.Where("sr.date_of_request >= ? AND sr.date_of_request < ?", day, day.AddDate(0, 0, 1))
	case SearchTypeLocation:
		q = q.Where(ilike("cp.address"), likePattern(query))
	case SearchTypePin:
		q = q.Where(ilike("cp.pin_code"), likePattern(query))
	}

	results := []RequestView{}
	if err := q.Order("sr.date_of_request DESC, sr.id DESC").Scan(&results).Error; err != nil {
		return nil, internalError("Failed to search service requests", err)
	}
	return newSearchResult(searchType, query, results), nil
}

// SearchCustomers finds customers by name, address or pin code
func (s *SearchService) SearchCustomers(ctx context.Context, query string) (*SearchResult[CustomerView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search text is required")
	}

	pattern := likePattern(query)
	results := []CustomerView{}
	err := customerViews(s.db.WithContext(ctx)).
		Where(ilike("cp.full_name")+" OR "+ilike("cp.address")+" OR "+ilike("cp.pin_code"), pattern, pattern, pattern).
		Order("u.id").
		Scan(&results).Error
	if err != nil {
		return nil, internalError("Failed to search customers", err)
	}
	return newSearchResult(SearchTypeCustomer, query, results), nil
}

// SearchAllProfessionals finds professionals by name or address regardless of account status
func (s *SearchService) SearchAllProfessionals(ctx context.Context, query string) (*SearchResult[ProfessionalView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search text is required")
	}

	pattern := likePattern(query)
	results := []ProfessionalView{}
	err := professionalViews(s.db.WithContext(ctx)).
		Where(ilike("pp.full_name")+" OR "+ilike("pp.address"), pattern, pattern).
		Order("u.id").
		Scan(&results).Error
	if err != nil {
		return nil, internalError("Failed to search professionals", err)
	}
	return newSearchResult(SearchTypeProfessional, query, withFileURLs(results)), nil
}

// SearchServices finds catalog services by name, description or category
func (s *SearchService) SearchServices(ctx context.Context, query string) (*SearchResult[models.Service], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search text is required")
	}

	pattern := likePattern(query)
	results := []models.Service{}
	err := s.db.WithContext(ctx).
		Where(ilike("name")+" OR "+ilike("description")+" OR "+ilike("service_type"), pattern, pattern, pattern).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, internalError("Failed to search services", err)
	}
	return newSearchResult(SearchTypeService, query, results), nil
}

// SearchRequests finds service requests by status or remarks
func (s *SearchService) SearchRequests(ctx context.Context, query string) (*SearchResult[RequestView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search text is required")
	}

	pattern := likePattern(query)
	results := []RequestView{}
	err := requestViews(s.db.WithContext(ctx)).
		Where(ilike("sr.service_status")+" OR "+ilike("sr.remarks"), pattern, pattern).
		Order("sr.date_of_request DESC, sr.id DESC").
		Scan(&results).Error
	if err != nil {
		return nil, internalError("Failed to search service requests", err)
	}
	return newSearchResult(SearchTypeServiceRequest, query, results), nil
}

// validateSearchTerm checks the search type against allowed and the term against the type's format
func validateSearchTerm(searchType, query string, allowed ...string) error {
	valid := false
	for _, t := range allowed {
		if t == searchType {
			valid = true
			break
		}
	}
	if !valid {
		return invalidInput("type must be one of " + strings.Join(allowed, ", "))
	}
	if query == "" {
		return invalidInput("search text is required")
	}

	switch searchType {
	case SearchTypeLocation:
		if !isAlpha(query) {
			return invalidInput("Location must contain only alphabetic characters.")
		}
	case SearchTypePin:
		if len(query) != 6 || !isDigits(query) {
			return invalidInput("PIN must be a 6-digit number.")
		}
	case SearchTypeDate:
		if _, err := time.Parse("2006-01-02", query); err != nil {
			return invalidInput("Invalid date format. Use YYYY-MM-DD.")
		}
	}
	return nil
}

// ilike renders a portable case-insensitive LIKE condition on column
func ilike(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
