package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment moves one or more products between holders.
type Shipment struct {
	ID                 int64             `json:"id"`
	OrderID            string            `json:"order_id"`
	Status             string            `json:"shipment_status"`
	Type               string            `json:"shipment_type"`
	Price              Price             `json:"price"`
	Origin             string            `json:"origin"`
	Destination        string            `json:"destination"`
	OriginDetails      map[string]string `json:"originDetails"`
	DestinationDetails map[string]string `json:"destinationDetails"`
	Snapshots          []ProductSnapshot `json:"snapshots"`
	OrderDate          string            `json:"order_date,omitempty"`
	TrackingURL        string            `json:"trackingURL,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	DeletedAt          *time.Time        `json:"deletedAt,omitempty"`
}

// Price is a monetary amount in a currency.
type Price struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// ProductSnapshot is the state of one product inside a shipment.
type ProductSnapshot struct {
	ProductID    int64  `json:"productId,omitempty"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Status       string `json:"status"`
}

// Shipment statuses.
const (
	ShipmentStatusOnHold        = "On Hold - Missing Data"
	ShipmentStatusInPreparation = "In Preparation"
	ShipmentStatusOnTheWay      = "On The Way"
	ShipmentStatusReceived      = "Received"
	ShipmentStatusCancelled     = "Cancelled"
)
