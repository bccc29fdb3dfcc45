package model

import (
	"strings"
	"time"
)

// Member represents a team member who can hold products.
type Member struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	PersonalEmail string     `json:"personalEmail"`
	Phone         string     `json:"phone"`
	DNI           string     `json:"dni"`
	Country       string     `json:"country"`
	City          string     `json:"city"`
	ZipCode       string     `json:"zipCode"`
	Address       string     `json:"address"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

// MemberRequiredFields lists the fields a member needs before anything can be shipped to them.
var MemberRequiredFields = []string{"personalEmail", "phone", "dni", "country", "city", "zipCode", "address"}

// FullName returns "First Last", falling back to the work email.
func (m *Member) FullName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.Email
	}
	return name
}

// Field returns the value of a contact field by its JSON name.
func (m *Member) Field(name string) string {
	switch name {
	case "firstName":
		return m.FirstName
	case "lastName":
		return m.LastName
	case "email":
		return m.Email
	case "personalEmail":
		return m.PersonalEmail
	case "phone":
		return m.Phone
	case "dni":
		return m.DNI
	case "country":
		return m.Country
	case "city":
		return m.City
	case "zipCode":
		return m.ZipCode
	case "address":
		return m.Address
	}
	return ""
}
