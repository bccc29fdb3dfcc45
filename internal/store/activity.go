package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/erazemk/assetdesk/internal/model"
)

// recordActivity appends an activity entry with the old and new snapshots and
// the JSON patch between them. A nil before is stored as an empty object.
func recordActivity(ctx context.Context, tx *sql.Tx, entityType string, entityID int64, action string, before, after any, userID *int64) error {
	oldData := []byte("{}")
	if before != nil {
		data, err := json.Marshal(before)
		if err != nil {
			return fmt.Errorf("encoding old snapshot: %w", err)
		}
		oldData = data
	}

	newData, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("encoding new snapshot: %w", err)
	}

	patch, err := jsondiff.CompareJSON(oldData, newData)
	if err != nil {
		return fmt.Errorf("computing snapshot patch: %w", err)
	}
	patchData, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encoding snapshot patch: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO activity (entity_type, entity_id, action, old_data, new_data, patch, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entityType, entityID, action, string(oldData), string(newData), string(patchData), userID,
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// ListActivity returns the activity of an entity, newest first.
func ListActivity(ctx context.Context, db *sql.DB, entityType string, entityID int64) ([]model.Activity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, old_data, new_data, patch, user_id, created_at
		 FROM activity WHERE entity_type = ? AND entity_id = ?
		 ORDER BY created_at DESC, id DESC`, entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		var a model.Activity
		var oldData, newData string
		var patch sql.NullString
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Action, &oldData, &newData, &patch, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.OldData = json.RawMessage(oldData)
		a.NewData = json.RawMessage(newData)
		if patch.Valid {
			a.Patch = json.RawMessage(patch.String)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
