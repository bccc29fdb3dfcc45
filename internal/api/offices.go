package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
)

// OfficesHandler serves the tenant's default office. GET returns the same
// document the office client reads from a remote instance.
type OfficesHandler struct {
	DB *sql.DB
}

type officeRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Address string `json:"address"`
}

// GetDefault handles GET /api/offices/default.
func (h *OfficesHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	office, err := store.GetDefaultOffice(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get default office", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get default office")
		return
	}
	if office == nil {
		jsonError(w, http.StatusNotFound, "no default office")
		return
	}
	jsonResponse(w, http.StatusOK, office)
}

// SetDefault handles PUT /api/offices/default.
func (h *OfficesHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	var req officeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	office, err := store.SetDefaultOffice(r.Context(), h.DB, &model.Office{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Country: req.Country,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Address: req.Address,
	})
	if err != nil {
		slog.Error("failed to set default office", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to set default office")
		return
	}

	slog.Info("default office updated", "user", GetClaims(r.Context()).Username, "office", office.Name)
	jsonResponse(w, http.StatusOK, office)
}
