package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/erazemk/assetdesk/internal/holder"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
	"github.com/erazemk/assetdesk/internal/validation"
)

// MembersHandler handles member endpoints.
type MembersHandler struct {
	DB        *sql.DB
	Validator *validation.Validator
	Sessions  *sessions
}

type memberRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName"`
	Email         string `json:"email" validate:"required,email"`
	PersonalEmail string `json:"personalEmail" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	DNI           string `json:"dni"`
	Country       string `json:"country"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	Address       string `json:"address"`
}

func (req *memberRequest) member() *model.Member {
	return &model.Member{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PersonalEmail: req.PersonalEmail,
		Phone:         req.Phone,
		DNI:           req.DNI,
		Country:       req.Country,
		City:          req.City,
		ZipCode:       req.ZipCode,
		Address:       req.Address,
	}
}

type offboardRequest struct {
	NoneOption string `json:"noneOption" validate:"required,oneof='Our office' 'FP warehouse'"`
}

type offboardResponse struct {
	Member   *model.Member    `json:"member"`
	Products []*model.Product `json:"products"`
	Messages []string         `json:"messages"`
	HTML     []string         `json:"html"`
}

// List handles GET /api/members.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := store.ListMembers(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list members", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	jsonResponse(w, http.StatusOK, members)
}

// Create handles POST /api/members.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := store.CreateMember(r.Context(), h.DB, req.member())
	if errors.Is(err, store.ErrDuplicate) {
		jsonError(w, http.StatusConflict, "member with this email already exists")
		return
	}
	if err != nil {
		storeFailure(w, err, "create", "member")
		return
	}

	slog.Info("member created", "user", GetClaims(r.Context()).Username, "member", member.Email)
	jsonResponse(w, http.StatusCreated, member)
}

// Get handles GET /api/members/{id}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, member)
}

// Update handles PUT /api/members/{id}. The work email is not changed.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	member, ok := h.load(w, r)
	if !ok {
		return
	}

	var req memberRequest
	req.Email = member.Email
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := req.member()
	updated.ID = member.ID
	if err := store.UpdateMember(r.Context(), h.DB, updated); err != nil {
		storeFailure(w, err, "update", "member")
		return
	}

	member, err := store.GetMember(r.Context(), h.DB, member.ID)
	if err != nil {
		storeFailure(w, err, "get", "member")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}
	jsonResponse(w, http.StatusOK, member)
}

// Delete handles DELETE /api/members/{id}.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	member, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := store.DeleteMember(r.Context(), h.DB, member.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "member not found")
			return
		}
		jsonError(w, http.StatusConflict, err.Error())
		return
	}

	slog.Info("member deleted", "user", GetClaims(r.Context()).Username, "member", member.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "member deleted"})
}

// Offboard handles POST /api/members/{id}/offboard. Every product the member
// holds is returned to the chosen location and the member is removed. The
// response carries the missing-data messages of the move.
func (h *MembersHandler) Offboard(w http.ResponseWriter, r *http.Request) {
	member, ok := h.load(w, r)
	if !ok {
		return
	}

	var req offboardRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	entities := holder.Resolve(
		&model.Product{AssignedEmail: member.Email},
		[]model.Member{*member},
		nil,
		h.Sessions.forRequest(r),
		req.NoneOption,
	)
	messages := h.Validator.AfterAction(r.Context(), entities.Source, entities.Destination)

	moved, err := store.OffboardMember(r.Context(), h.DB, member.ID, assignmentFor(nil, req.NoneOption), actingUser(r))
	if err != nil {
		storeFailure(w, err, "offboard", "member")
		return
	}

	resp := offboardResponse{
		Member:   member,
		Products: nonNil(moved),
		Messages: nonNil(messages),
		HTML:     nonNil(validation.HTML(messages)),
	}

	slog.Info("member offboarded",
		"user", GetClaims(r.Context()).Username,
		"member", member.Email,
		"products", len(resp.Products),
		"location", req.NoneOption,
		"missing", len(messages),
	)
	jsonResponse(w, http.StatusOK, resp)
}

// load fetches the active member named by the {id} path value, writing an
// error response when it cannot.
func (h *MembersHandler) load(w http.ResponseWriter, r *http.Request) (*model.Member, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid member id")
		return nil, false
	}

	member, err := store.GetMember(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get member", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get member")
		return nil, false
	}
	if member == nil || member.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return nil, false
	}
	return member, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
