package services

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/gosimple/slug"
)

var zipCodePattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z\- ]{2,9}$`)

const minGeocodeConfidence = 0.5

// AddressValidationResult reports what the validator thought of an address.
// Suggested holds geocoder corrections for fields that did not match, keyed
// by field name.
type AddressValidationResult struct {
	Valid      bool              `json:"valid"`
	Issues     []string          `json:"issues,omitempty"`
	Suggested  map[string]string `json:"suggested,omitempty"`
	Confidence float64           `json:"confidence"`
}

// AddressValidationService checks an address structurally and, when a
// geocoder is configured, against real-world geocoding results.
type AddressValidationService struct {
	geocoder GeocodingClient
}

func NewAddressValidationService(geocoder GeocodingClient) *AddressValidationService {
	return &AddressValidationService{geocoder: geocoder}
}

// Validate checks the address structurally, then against the geocoder when
// one is configured. A geocoder failure, an unlocatable address, or a field
// that disagrees with the resolved location all make the result invalid;
// only a missing geocoder skips the remote check.
func (s *AddressValidationService) Validate(ctx context.Context, user *models.User) *AddressValidationResult {
	result := &AddressValidationResult{Valid: true}

	if strings.TrimSpace(user.Street) == "" {
		result.addIssue("street is required")
	}
	if strings.TrimSpace(user.City) == "" {
		result.addIssue("city is required")
	}
	if strings.TrimSpace(user.Country) == "" {
		result.addIssue("country is required")
	}
	if user.ZipCode != "" && !zipCodePattern.MatchString(user.ZipCode) {
		result.addIssue("zip code format is invalid")
	}
	if !result.Valid {
		return result
	}

	if s.geocoder == nil {
		return result
	}

	location, err := s.geocoder.Geocode(ctx, user.FullAddress())
	if err != nil {
		log.Printf("AddressValidationService: geocoding failed: %v", err)
		result.addIssue("address could not be verified")
		return result
	}
	if location == nil {
		result.addIssue("address could not be located")
		return result
	}

	result.Confidence = location.Confidence
	if location.Confidence < minGeocodeConfidence {
		result.addIssue("address matched with low confidence")
	}

	suggested := map[string]string{}
	if location.City != "" && !fieldsMatch(user.City, location.City) {
		suggested["city"] = location.City
		result.addIssue("city does not match the located address")
	}
	if location.State != "" && user.State != "" && !fieldsMatch(user.State, location.State) {
		suggested["state"] = location.State
		result.addIssue("state does not match the located address")
	}
	if location.Country != "" && !fieldsMatch(user.Country, location.Country) {
		suggested["country"] = location.Country
		result.addIssue("country does not match the located address")
	}
	if location.Postcode != "" && user.ZipCode != "" && !fieldsMatch(user.ZipCode, location.Postcode) {
		suggested["zip_code"] = location.Postcode
		result.addIssue("zip code does not match the located address")
	}
	if len(suggested) > 0 {
		result.Suggested = suggested
	}

	return result
}

func (r *AddressValidationResult) addIssue(issue string) {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
}

// fieldsMatch compares two address fields ignoring case, accents and
// punctuation.
func fieldsMatch(a, b string) bool {
	return slug.Make(a) == slug.Make(b)
}
