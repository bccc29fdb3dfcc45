package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/assetdesk/internal/changes"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
)

// writeHistory responds with the activity of an entity, newest first, each
// entry carrying the change records between its snapshots.
func writeHistory(w http.ResponseWriter, r *http.Request, db *sql.DB, entityType string, id int64, schema *changes.Schema) {
	entries, err := store.ListActivity(r.Context(), db, entityType, id)
	if err != nil {
		slog.Error("failed to list activity", "error", err, "entity", entityType, "id", id)
		jsonError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	for i := range entries {
		diff, err := schema.DiffJSON(entries[i].OldData, entries[i].NewData)
		if err != nil {
			slog.Warn("skipping unreadable activity snapshot", "error", err, "activity", entries[i].ID)
			continue
		}
		entries[i].Changes = diff
	}

	if entries == nil {
		entries = []model.Activity{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// loadSelectedMember loads the member picked as a new holder. A nil id
// means no member was picked.
func loadSelectedMember(w http.ResponseWriter, r *http.Request, db *sql.DB, id *int64) (*model.Member, bool) {
	if id == nil {
		return nil, true
	}

	member, err := store.GetMember(r.Context(), db, *id)
	if err != nil {
		slog.Error("failed to get member", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get member")
		return nil, false
	}
	if member == nil || member.DeletedAt != nil {
		jsonError(w, http.StatusBadRequest, "selected member not found")
		return nil, false
	}
	return member, true
}
