package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"storelocator/internal/geo"
)

// Type is the delivery regime a store is registered under.
type Type string

const (
	// TypePDV stores offer pickup and local courier delivery.
	TypePDV Type = "PDV"
	// TypeLoja stores only ship through national carriers.
	TypeLoja Type = "LOJA"
)

const DefaultCountry = "Brasil"

type Store struct {
	StoreID            string    `json:"storeID"`
	StoreName          string    `json:"storeName"`
	TakeOutInStore     *bool     `json:"takeOutInStore,omitempty"`
	ShippingTimeInDays int       `json:"shippingTimeInDays"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Address1           string    `json:"address1"`
	Address2           string    `json:"address2,omitempty"`
	Address3           string    `json:"address3,omitempty"`
	City               string    `json:"city"`
	District           string    `json:"district"`
	State              string    `json:"state"`
	Type               Type      `json:"type"`
	Country            string    `json:"country"`
	PostalCode         string    `json:"postalCode"`
	TelephoneNumber    string    `json:"telephoneNumber,omitempty"`
	EmailAddress       string    `json:"emailAddress,omitempty"`
	Geohash            string    `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (s Store) Position() geo.Point {
	return geo.Point{Lat: s.Latitude, Lng: s.Longitude}
}

// ValidationError lists every problem found with a store. It matches ErrInvalid.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid store: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

var (
	nonDigits = regexp.MustCompile(`\D`)
	phoneRe   = regexp.MustCompile(`^\d{10,11}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	stateRe   = regexp.MustCompile(`^[A-Z]{2}$`)
)

// NormalizePostalCode strips everything but digits.
func NormalizePostalCode(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidPostalCode reports whether s is exactly 8 digits.
func ValidPostalCode(s string) bool {
	return len(s) == 8 && NormalizePostalCode(s) == s
}

// Normalize trims and canonicalizes s in place and returns the problems that
// remain. A nil error means s can be persisted.
func (s *Store) Normalize() error {
	s.StoreID = strings.TrimSpace(s.StoreID)
	s.StoreName = strings.TrimSpace(s.StoreName)
	s.Address1 = strings.TrimSpace(s.Address1)
	s.Address2 = strings.TrimSpace(s.Address2)
	s.Address3 = strings.TrimSpace(s.Address3)
	s.City = strings.TrimSpace(s.City)
	s.District = strings.TrimSpace(s.District)
	s.State = strings.ToUpper(strings.TrimSpace(s.State))
	s.Type = Type(strings.ToUpper(strings.TrimSpace(string(s.Type))))
	s.Country = strings.TrimSpace(s.Country)
	if s.Country == "" {
		s.Country = DefaultCountry
	}
	s.PostalCode = NormalizePostalCode(s.PostalCode)
	s.TelephoneNumber = strings.TrimSpace(s.TelephoneNumber)
	s.EmailAddress = strings.ToLower(strings.TrimSpace(s.EmailAddress))
	if s.TakeOutInStore == nil {
		t := true
		s.TakeOutInStore = &t
	}

	var problems []string
	for _, f := range []struct{ name, value string }{
		{"storeID", s.StoreID},
		{"storeName", s.StoreName},
		{"address1", s.Address1},
		{"city", s.City},
		{"district", s.District},
	} {
		if f.value == "" {
			problems = append(problems, f.name+" is required")
		}
	}
	if !stateRe.MatchString(s.State) {
		problems = append(problems, "state must be a 2-letter code")
	}
	if s.Type != TypePDV && s.Type != TypeLoja {
		problems = append(problems, fmt.Sprintf("type must be %s or %s", TypePDV, TypeLoja))
	}
	if len(s.PostalCode) != 8 {
		problems = append(problems, "postalCode must contain 8 digits")
	}
	if s.ShippingTimeInDays < 0 {
		problems = append(problems, "shippingTimeInDays must not be negative")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		problems = append(problems, "latitude must be within [-90, 90]")
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		problems = append(problems, "longitude must be within [-180, 180]")
	}
	if s.TelephoneNumber != "" && !phoneRe.MatchString(s.TelephoneNumber) {
		problems = append(problems, "telephoneNumber must have 10 or 11 digits")
	}
	if s.EmailAddress != "" && !emailRe.MatchString(s.EmailAddress) {
		problems = append(problems, "emailAddress is invalid")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	s.Geohash = geo.Hash(s.Position())
	return nil
}
