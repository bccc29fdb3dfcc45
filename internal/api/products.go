package api

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/erazemk/assetdesk/internal/changes"
	"github.com/erazemk/assetdesk/internal/holder"
	"github.com/erazemk/assetdesk/internal/imaging"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
	"github.com/erazemk/assetdesk/internal/validation"
)

// ProductsHandler handles product endpoints.
type ProductsHandler struct {
	DB        *sql.DB
	Validator *validation.Validator
	Sessions  *sessions
	Location  *time.Location
}

type productRequest struct {
	Name            string            `json:"name" validate:"required"`
	Category        string            `json:"category"`
	Status          string            `json:"status" validate:"omitempty,product_status"`
	SerialNumber    string            `json:"serialNumber"`
	AcquisitionDate string            `json:"acquisitionDate"`
	Attributes      []model.Attribute `json:"attributes" validate:"unique=Key,dive"`
}

type createProductRequest struct {
	productRequest
	MemberID   *int64 `json:"memberId"`
	NoneOption string `json:"noneOption" validate:"required_without=MemberID,omitempty,oneof='Our office' 'FP warehouse'"`
}

// relocateRequest names the new holder: a member, or a location when no
// member is selected.
type relocateRequest struct {
	MemberID   *int64 `json:"memberId"`
	NoneOption string `json:"noneOption" validate:"required_without=MemberID,omitempty,oneof='Our office' 'FP warehouse'"`
}

type relocateResponse struct {
	Product  *model.Product   `json:"product"`
	Entities *holder.Entities `json:"entities"`
	Messages []string         `json:"messages"`
	HTML     []string         `json:"html"`
}

type createProductResponse struct {
	Product  *model.Product `json:"product"`
	Messages []string       `json:"messages"`
	HTML     []string       `json:"html"`
}

// assignmentFor returns where a product goes for the selected member or,
// without one, the location named by noneOption.
func assignmentFor(selected *model.Member, noneOption string) store.Assignment {
	if selected != nil {
		return store.Assignment{
			Email:      selected.Email,
			MemberName: selected.FullName(),
			Location:   model.LocationEmployee,
			Status:     model.ProductStatusDelivered,
		}
	}
	return store.Assignment{
		Location: noneOption,
		Status:   model.ProductStatusAvailable,
	}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := store.ListProducts(r.Context(), h.DB, store.ProductFilter{
		AssignedEmail: q.Get("assignedEmail"),
		Location:      q.Get("location"),
		Category:      q.Get("category"),
		Status:        q.Get("status"),
	})
	if err != nil {
		slog.Error("failed to list products", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, products)
}

// Create handles POST /api/products. The new product is assigned like a
// relocation, and the response carries the missing-data messages of the
// assignee.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected, ok := h.selectedMember(w, r, req.MemberID)
	if !ok {
		return
	}

	to := assignmentFor(selected, req.NoneOption)
	status := req.Status
	if status == "" {
		status = to.Status
	}

	product, err := store.CreateProduct(r.Context(), h.DB, &model.Product{
		Name:            req.Name,
		Category:        req.Category,
		Status:          status,
		SerialNumber:    req.SerialNumber,
		AssignedEmail:   to.Email,
		AssignedMember:  to.MemberName,
		Location:        to.Location,
		AcquisitionDate: req.AcquisitionDate,
		Attributes:      req.Attributes,
	}, actingUser(r))
	if err != nil {
		slog.Error("failed to create product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	messages := h.Validator.OnCreate(r.Context(), selected, req.NoneOption)
	slog.Info("product created", "user", GetClaims(r.Context()).Username, "product", product.ID, "location", product.Location)
	jsonResponse(w, http.StatusCreated, createProductResponse{
		Product:  product,
		Messages: nonNil(messages),
		HTML:     nonNil(validation.HTML(messages)),
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id}. Holder changes go through Relocate.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	product.Name = req.Name
	product.Category = req.Category
	product.SerialNumber = req.SerialNumber
	product.AcquisitionDate = req.AcquisitionDate
	product.Attributes = req.Attributes
	if req.Status != "" {
		product.Status = req.Status
	}

	updated, err := store.UpdateProduct(r.Context(), h.DB, product, actingUser(r))
	if err != nil {
		storeFailure(w, err, "update", "product")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, product.ID, actingUser(r)); err != nil {
		storeFailure(w, err, "delete", "product")
		return
	}

	slog.Info("product deleted", "user", GetClaims(r.Context()).Username, "product", product.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Relocate handles POST /api/products/{id}/relocate. The product is moved
// to the requested holder; incomplete holder data does not block the move
// and is reported in the response.
func (h *ProductsHandler) Relocate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}

	var req relocateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected, ok := h.selectedMember(w, r, req.MemberID)
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

	moved, err := store.RelocateProduct(r.Context(), h.DB, product.ID, assignmentFor(selected, req.NoneOption), model.ActionRelocate, actingUser(r))
	if err != nil {
		storeFailure(w, err, "relocate", "product")
		return
	}

	slog.Info("product relocated",
		"user", GetClaims(r.Context()).Username,
		"product", product.ID,
		"from", entities.Source.Label(),
		"to", entities.Destination.Label(),
		"missing", len(messages),
	)
	jsonResponse(w, http.StatusOK, relocateResponse{
		Product:  moved,
		Entities: &entities,
		Messages: nonNil(messages),
		HTML:     nonNil(validation.HTML(messages)),
	})
}

// UploadImage handles PUT /api/products/{id}/image. The body is the raw
// image or a multipart form with an "image" file.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUpload+1<<20)
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("image")
		if err != nil {
			jsonError(w, http.StatusBadRequest, "image file required")
			return
		}
		defer file.Close()
		body = file
	}

	photo, err := imaging.ProcessPhoto(body)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		jsonError(w, http.StatusBadRequest, "image must be JPEG or PNG")
		return
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	if err := store.SetProductImage(r.Context(), h.DB, product.ID, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save product image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "image uploaded",
		"width":   photo.Width,
		"height":  photo.Height,
	})
}

// GetImage handles GET /api/products/{id}/image.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	data, mime, err := store.GetProductImage(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get product image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// History handles GET /api/products/{id}/history.
func (h *ProductsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	writeHistory(w, r, h.DB, model.EntityProduct, id, changes.NewAssetSchema(h.Location))
}

// selectedMember loads the member with id, if any. A missing member is a
// client error.
func (h *ProductsHandler) selectedMember(w http.ResponseWriter, r *http.Request, id *int64) (*model.Member, bool) {
	return loadSelectedMember(w, r, h.DB, id)
}

func (h *ProductsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Product, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return nil, false
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return nil, false
	}
	if product == nil || product.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return nil, false
	}
	return product, true
}
