package model

import "time"

// Product locations. Products held by a member are in LocationEmployee.
const (
	LocationEmployee  = "Employee"
	LocationOffice    = "Our office"
	LocationWarehouse = "FP warehouse"
)

// Office is the tenant's office record. Location is always LocationOffice when the
// office acts as a product holder.
type Office struct {
	ID        int64     `json:"id,omitempty"`
	Location  string    `json:"location,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// OfficeRequiredFields lists the fields the default office needs for shipping.
var OfficeRequiredFields = []string{"country", "city", "state", "zipCode", "address", "phone"}

// Field returns the value of a contact field by its JSON name.
func (o *Office) Field(name string) string {
	switch name {
	case "name":
		return o.Name
	case "email":
		return o.Email
	case "phone":
		return o.Phone
	case "country":
		return o.Country
	case "city":
		return o.City
	case "state":
		return o.State
	case "zipCode":
		return o.ZipCode
	case "address":
		return o.Address
	}
	return ""
}

// SessionUser is the authenticated user together with their tenant office details.
type SessionUser struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Tenant   string `json:"tenant"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Address  string `json:"address"`
}

// Office returns the session user's office as a holder snapshot.
func (s SessionUser) Office() *Office {
	return &Office{
		Location: LocationOffice,
		Name:     s.Tenant,
		Email:    s.Email,
		Phone:    s.Phone,
		Country:  s.Country,
		City:     s.City,
		State:    s.State,
		ZipCode:  s.ZipCode,
		Address:  s.Address,
	}
}
