package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/assetdesk/internal/model"
)

const shipmentColumns = `id, order_id, status, type, price_amount, price_currency, origin, destination,
	origin_details, destination_details, snapshots, order_date, tracking_url, created_at, updated_at, deleted_at`

func scanShipment(s scanner, sh *model.Shipment) error {
	var originDetails, destinationDetails, snapshots string
	if err := s.Scan(&sh.ID, &sh.OrderID, &sh.Status, &sh.Type, &sh.Price.Amount, &sh.Price.CurrencyCode,
		&sh.Origin, &sh.Destination, &originDetails, &destinationDetails, &snapshots,
		&sh.OrderDate, &sh.TrackingURL, &sh.CreatedAt, &sh.UpdatedAt, &sh.DeletedAt); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(originDetails), &sh.OriginDetails); err != nil {
		return fmt.Errorf("decoding origin details: %w", err)
	}
	if err := json.Unmarshal([]byte(destinationDetails), &sh.DestinationDetails); err != nil {
		return fmt.Errorf("decoding destination details: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshots), &sh.Snapshots); err != nil {
		return fmt.Errorf("decoding snapshots: %w", err)
	}
	return nil
}

// shipmentJSON holds the JSON-encoded columns of a shipment.
type shipmentJSON struct {
	originDetails      string
	destinationDetails string
	snapshots          string
}

func encodeShipment(sh *model.Shipment) (shipmentJSON, error) {
	var enc shipmentJSON
	for _, f := range []struct {
		dst   *string
		value any
		empty string
	}{
		{&enc.originDetails, sh.OriginDetails, "{}"},
		{&enc.destinationDetails, sh.DestinationDetails, "{}"},
		{&enc.snapshots, sh.Snapshots, "[]"},
	} {
		data, err := json.Marshal(f.value)
		if err != nil {
			return enc, fmt.Errorf("encoding shipment: %w", err)
		}
		*f.dst = string(data)
		if *f.dst == "null" {
			*f.dst = f.empty
		}
	}
	return enc, nil
}

func getShipment(ctx context.Context, q queryRower, id int64) (*model.Shipment, error) {
	sh := &model.Shipment{}
	err := scanShipment(q.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, id,
	), sh)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shipment: %w", err)
	}
	return sh, nil
}

// GetShipment returns a shipment by ID, or nil if it does not exist.
func GetShipment(ctx context.Context, db *sql.DB, id int64) (*model.Shipment, error) {
	return getShipment(ctx, db, id)
}

// CreateShipment creates a shipment and records its creation.
func CreateShipment(ctx context.Context, db *sql.DB, sh *model.Shipment, userID *int64) (*model.Shipment, error) {
	enc, err := encodeShipment(sh)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO shipments (order_id, status, type, price_amount, price_currency, origin, destination,
		                        origin_details, destination_details, snapshots, order_date, tracking_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.OrderID, sh.Status, sh.Type, sh.Price.Amount.String(), sh.Price.CurrencyCode, sh.Origin, sh.Destination,
		enc.originDetails, enc.destinationDetails, enc.snapshots, sh.OrderDate, sh.TrackingURL,
	)
	if err != nil {
		return nil, fmt.Errorf("creating shipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shipment id: %w", err)
	}

	created, err := getShipment(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := recordActivity(ctx, tx, model.EntityShipment, id, model.ActionCreate, nil, created, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing shipment: %w", err)
	}
	return created, nil
}

// ListShipments returns all non-deleted shipments, newest first. An empty
// status lists every status.
func ListShipments(ctx context.Context, db *sql.DB, status string) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing shipments: %w", err)
	}
	defer rows.Close()

	var shipments []model.Shipment
	for rows.Next() {
		var sh model.Shipment
		if err := scanShipment(rows, &sh); err != nil {
			return nil, fmt.Errorf("scanning shipment: %w", err)
		}
		shipments = append(shipments, sh)
	}
	return shipments, rows.Err()
}

// UpdateShipment replaces a shipment's fields and records the change.
func UpdateShipment(ctx context.Context, db *sql.DB, sh *model.Shipment, userID *int64) (*model.Shipment, error) {
	enc, err := encodeShipment(sh)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := getShipment(ctx, tx, sh.ID)
	if err != nil {
		return nil, err
	}
	if before == nil || before.DeletedAt != nil {
		return nil, fmt.Errorf("shipment %d: %w", sh.ID, ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE shipments SET order_id = ?, status = ?, type = ?, price_amount = ?, price_currency = ?,
		        origin = ?, destination = ?, origin_details = ?, destination_details = ?, snapshots = ?,
		        order_date = ?, tracking_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		sh.OrderID, sh.Status, sh.Type, sh.Price.Amount.String(), sh.Price.CurrencyCode,
		sh.Origin, sh.Destination, enc.originDetails, enc.destinationDetails, enc.snapshots,
		sh.OrderDate, sh.TrackingURL, sh.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating shipment: %w", err)
	}

	after, err := getShipment(ctx, tx, sh.ID)
	if err != nil {
		return nil, err
	}
	if err := recordActivity(ctx, tx, model.EntityShipment, sh.ID, model.ActionUpdate, before, after, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing shipment: %w", err)
	}
	return after, nil
}
