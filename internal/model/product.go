package model

import "time"

// Product represents a tracked asset.
type Product struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Status          string      `json:"status"`
	SerialNumber    string      `json:"serialNumber,omitempty"`
	AssignedEmail   string      `json:"assignedEmail"`
	AssignedMember  string      `json:"assignedMember"`
	Location        string      `json:"location"`
	AcquisitionDate string      `json:"acquisitionDate,omitempty"`
	Attributes      []Attribute `json:"attributes"`
	ImageMime       string      `json:"imageMime,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	DeletedAt       *time.Time  `json:"deletedAt,omitempty"`
}

// Attribute is a free-form key/value property of a product (brand, model, ...).
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Product statuses.
const (
	ProductStatusAvailable  = "Available"
	ProductStatusDelivered  = "Delivered"
	ProductStatusInTransit  = "In Transit"
	ProductStatusDeprecated = "Deprecated"
)

// ValidProductStatus reports whether status is one of the known product statuses.
func ValidProductStatus(status string) bool {
	switch status {
	case ProductStatusAvailable, ProductStatusDelivered, ProductStatusInTransit, ProductStatusDeprecated:
		return true
	}
	return false
}
