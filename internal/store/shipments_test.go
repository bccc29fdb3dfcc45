package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/assetdesk/internal/db"
	"github.com/erazemk/assetdesk/internal/model"
)

func TestCreateAndUpdateShipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	sh, err := CreateShipment(ctx, database, &model.Shipment{
		OrderID: "ORD-1",
		Status:  model.ShipmentStatusInPreparation,
		Price:   model.Price{Amount: decimal.RequireFromString("12.50"), CurrencyCode: "EUR"},
		Origin:  model.LocationWarehouse,
		DestinationDetails: map[string]string{
			"desirableDate": "2024-05-01",
		},
		Snapshots: []model.ProductSnapshot{{Name: "Laptop", Status: model.ProductStatusInTransit}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, sh.Price.Amount.Equal(decimal.RequireFromString("12.5")), "amount %s", sh.Price.Amount)
	assert.Equal(t, "2024-05-01", sh.DestinationDetails["desirableDate"])

	sh.Status = model.ShipmentStatusOnTheWay
	updated, err := UpdateShipment(ctx, database, sh, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentStatusOnTheWay, updated.Status)

	entries, err := ListActivity(ctx, database, model.EntityShipment, sh.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var old map[string]any
	require.NoError(t, json.Unmarshal(entries[0].OldData, &old))
	assert.Equal(t, model.ShipmentStatusInPreparation, old["shipment_status"])
}

func TestListShipmentsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateShipment(ctx, database, &model.Shipment{OrderID: "A", Status: model.ShipmentStatusReceived}, nil)
	require.NoError(t, err)
	_, err = CreateShipment(ctx, database, &model.Shipment{OrderID: "B", Status: model.ShipmentStatusOnHold}, nil)
	require.NoError(t, err)

	all, err := ListShipments(ctx, database, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onHold, err := ListShipments(ctx, database, model.ShipmentStatusOnHold)
	require.NoError(t, err)
	require.Len(t, onHold, 1)
	assert.Equal(t, "B", onHold[0].OrderID)

	// Nil maps and slices are stored as empty JSON.
	var details, snapshots string
	require.NoError(t, database.QueryRow(
		`SELECT origin_details, snapshots FROM shipments WHERE order_id = 'A'`,
	).Scan(&details, &snapshots))
	assert.Equal(t, "{}", details)
	assert.Equal(t, "[]", snapshots)
}

func TestUpdateMissingShipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := UpdateShipment(ctx, database, &model.Shipment{ID: 7, OrderID: "X"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
