package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/assetdesk/internal/auth"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
	"github.com/erazemk/assetdesk/internal/validation"
)

func storeOffices(db *sql.DB) validation.OfficeSource {
	return store.Offices{DB: db}
}

// sessions builds the session user of a request from its token and the
// tenant's default office.
type sessions struct {
	offices validation.OfficeSource
}

func (s *sessions) forRequest(r *http.Request) model.SessionUser {
	claims := GetClaims(r.Context())
	if claims == nil {
		claims = &auth.Claims{}
	}

	office, err := s.offices.DefaultOffice(r.Context())
	if err != nil {
		slog.Warn("loading office for session", "error", err, "request_id", RequestID(r.Context()))
		office = nil
	}
	return claims.Session(office)
}
