package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/assetdesk/internal/holder"
	"github.com/erazemk/assetdesk/internal/store"
	"github.com/erazemk/assetdesk/internal/validation"
)

// ValidationsHandler runs holder checks without changing anything.
type ValidationsHandler struct {
	DB        *sql.DB
	Validator *validation.Validator
	Sessions  *sessions
}

type relocationCheckRequest struct {
	ProductID  int64  `json:"productId" validate:"required,gt=0"`
	MemberID   *int64 `json:"memberId"`
	NoneOption string `json:"noneOption" validate:"required_without=MemberID,omitempty,oneof='Our office' 'FP warehouse'"`
}

type createCheckRequest struct {
	MemberID   *int64 `json:"memberId"`
	NoneOption string `json:"noneOption" validate:"required_without=MemberID,omitempty,oneof='Our office' 'FP warehouse'"`
}

type checkResponse struct {
	Entities *holder.Entities `json:"entities,omitempty"`
	Messages []string         `json:"messages"`
	HTML     []string         `json:"html"`
}

// Relocation handles POST /api/validations/relocation: it resolves the
// current and new holder of a product and reports their missing data.
func (h *ValidationsHandler) Relocation(w http.ResponseWriter, r *http.Request) {
	var req relocationCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, req.ProductID)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil || product.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	selected, ok := loadSelectedMember(w, r, h.DB, req.MemberID)
	if !ok {
		return
	}

	members, err := store.ListMembers(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list members", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	entities := holder.Resolve(product, members, selected, h.Sessions.forRequest(r), req.NoneOption)
	messages := h.Validator.AfterAction(r.Context(), entities.Source, entities.Destination)

	jsonResponse(w, http.StatusOK, checkResponse{
		Entities: &entities,
		Messages: nonNil(messages),
		HTML:     nonNil(validation.HTML(messages)),
	})
}

// Create handles POST /api/validations/create: it reports the missing data
// of the holder a new product would be assigned to.
func (h *ValidationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected, ok := loadSelectedMember(w, r, h.DB, req.MemberID)
	if !ok {
		return
	}

	messages := h.Validator.OnCreate(r.Context(), selected, req.NoneOption)
	jsonResponse(w, http.StatusOK, checkResponse{
		Messages: nonNil(messages),
		HTML:     nonNil(validation.HTML(messages)),
	})
}
