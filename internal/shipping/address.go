package shipping

import "strings"

const DefaultCountry = "Philippines"

type Address struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Province  string `json:"province"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// Normalize trims every field and fills the country default.
func (a Address) Normalize() Address {
	a.Email = strings.TrimSpace(a.Email)
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.Province = strings.TrimSpace(a.Province)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// IsComplete gates the shipping -> payment transition: every field but
// country must be non-empty after trimming.
func IsComplete(a Address) bool {
	a = a.Normalize()
	return a.Email != "" &&
		a.FirstName != "" &&
		a.LastName != "" &&
		a.Street != "" &&
		a.City != "" &&
		a.Province != "" &&
		a.ZipCode != ""
}
