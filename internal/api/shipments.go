package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/assetdesk/internal/changes"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
)

// ShipmentsHandler handles shipment endpoints.
type ShipmentsHandler struct {
	DB       *sql.DB
	Location *time.Location
}

type shipmentRequest struct {
	OrderID            string                  `json:"order_id" validate:"required"`
	Status             string                  `json:"shipment_status" validate:"required,oneof='On Hold - Missing Data' 'In Preparation' 'On The Way' Received Cancelled"`
	Type               string                  `json:"shipment_type"`
	Price              priceRequest            `json:"price"`
	Origin             string                  `json:"origin"`
	Destination        string                  `json:"destination"`
	OriginDetails      map[string]string       `json:"originDetails"`
	DestinationDetails map[string]string       `json:"destinationDetails"`
	Snapshots          []model.ProductSnapshot `json:"snapshots"`
	OrderDate          string                  `json:"order_date"`
	TrackingURL        string                  `json:"trackingURL" validate:"omitempty,url"`
}

type priceRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode" validate:"omitempty,len=3"`
}

func (req *shipmentRequest) shipment() *model.Shipment {
	return &model.Shipment{
		OrderID:            req.OrderID,
		Status:             req.Status,
		Type:               req.Type,
		Price:              model.Price{Amount: req.Price.Amount, CurrencyCode: req.Price.CurrencyCode},
		Origin:             req.Origin,
		Destination:        req.Destination,
		OriginDetails:      req.OriginDetails,
		DestinationDetails: req.DestinationDetails,
		Snapshots:          req.Snapshots,
		OrderDate:          req.OrderDate,
		TrackingURL:        req.TrackingURL,
	}
}

// List handles GET /api/shipments.
func (h *ShipmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := store.ListShipments(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list shipments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list shipments")
		return
	}
	if shipments == nil {
		shipments = []model.Shipment{}
	}
	jsonResponse(w, http.StatusOK, shipments)
}

// Create handles POST /api/shipments.
func (h *ShipmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price.Amount.IsNegative() {
		jsonError(w, http.StatusBadRequest, "invalid price")
		return
	}

	shipment, err := store.CreateShipment(r.Context(), h.DB, req.shipment(), actingUser(r))
	if err != nil {
		slog.Error("failed to create shipment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create shipment")
		return
	}

	slog.Info("shipment created", "user", GetClaims(r.Context()).Username, "shipment", shipment.ID, "order", shipment.OrderID)
	jsonResponse(w, http.StatusCreated, shipment)
}

// Get handles GET /api/shipments/{id}.
func (h *ShipmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, shipment)
}

// Update handles PUT /api/shipments/{id}.
func (h *ShipmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req shipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price.Amount.IsNegative() {
		jsonError(w, http.StatusBadRequest, "invalid price")
		return
	}

	shipment := req.shipment()
	shipment.ID = existing.ID
	updated, err := store.UpdateShipment(r.Context(), h.DB, shipment, actingUser(r))
	if err != nil {
		storeFailure(w, err, "update", "shipment")
		return
	}

	slog.Info("shipment updated", "user", GetClaims(r.Context()).Username, "shipment", updated.ID, "status", updated.Status)
	jsonResponse(w, http.StatusOK, updated)
}

// History handles GET /api/shipments/{id}/history.
func (h *ShipmentsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}
	writeHistory(w, r, h.DB, model.EntityShipment, id, changes.NewShipmentSchema(h.Location))
}

func (h *ShipmentsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Shipment, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shipment id")
		return nil, false
	}

	shipment, err := store.GetShipment(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get shipment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get shipment")
		return nil, false
	}
	if shipment == nil || shipment.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "shipment not found")
		return nil, false
	}
	return shipment, true
}
