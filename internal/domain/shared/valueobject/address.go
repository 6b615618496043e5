package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping address as reported
// by a marketplace. Marketplaces differ in how much structure they
// provide, so only Street1 and Country are required.
type Address struct {
	Name       string `json:"name,omitempty"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// NewAddress creates an Address with the required fields
func NewAddress(street1, city, state, postalCode, country string) (Address, error) {
	street1 = strings.TrimSpace(street1)
	country = strings.ToUpper(strings.TrimSpace(country))

	if street1 == "" {
		return Address{}, fmt.Errorf("address: street is required")
	}
	if country == "" {
		return Address{}, fmt.Errorf("address: country is required")
	}
	if len(country) != 2 {
		return Address{}, fmt.Errorf("address: country must be a 2-letter ISO code, got %q", country)
	}

	return Address{
		Street1:    street1,
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    country,
	}, nil
}

// IsZero returns true if the address carries no data
func (a Address) IsZero() bool {
	return a == Address{}
}

// OneLine renders the address as a single display line
func (a Address) OneLine() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Street1, a.Street2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer for database storage (JSON)
func (a Address) Value() (driver.Value, error) {
	if a.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("address: cannot scan %T", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
