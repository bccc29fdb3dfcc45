package model

import (
	"encoding/json"
	"time"
)

// Change is a single differing field between two snapshots of the same entity.
type Change struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// Activity is an entry of the activity-history log.
type Activity struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Action     string          `json:"action"`
	OldData    json.RawMessage `json:"oldData"`
	NewData    json.RawMessage `json:"newData"`
	Patch      json.RawMessage `json:"patch,omitempty"`
	UserID     *int64          `json:"user_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`

	// Computed on read (not stored).
	Changes []Change `json:"changes,omitempty"`
}

// Activity entity types.
const (
	EntityProduct  = "product"
	EntityShipment = "shipment"
)

// Activity actions.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionRelocate = "relocate"
	ActionOffboard = "offboard"
	ActionDelete   = "delete"
)
