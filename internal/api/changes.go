package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/erazemk/assetdesk/internal/changes"
	"github.com/erazemk/assetdesk/internal/model"
)

// ChangesHandler diffs snapshot pairs posted by clients.
type ChangesHandler struct {
	Location *time.Location
}

type changesRequest struct {
	OldData json.RawMessage `json:"oldData"`
	NewData json.RawMessage `json:"newData"`
}

// Assets handles POST /api/changes/assets.
func (h *ChangesHandler) Assets(w http.ResponseWriter, r *http.Request) {
	h.diff(w, r, changes.NewAssetSchema(h.Location))
}

// Shipments handles POST /api/changes/shipments.
func (h *ChangesHandler) Shipments(w http.ResponseWriter, r *http.Request) {
	h.diff(w, r, changes.NewShipmentSchema(h.Location))
}

func (h *ChangesHandler) diff(w http.ResponseWriter, r *http.Request, schema *changes.Schema) {
	var req changesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := schema.DiffJSON(req.OldData, req.NewData)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "oldData and newData must be JSON objects")
		return
	}
	if out == nil {
		out = []model.Change{}
	}
	jsonResponse(w, http.StatusOK, out)
}
