// Package api serves the JSON HTTP API.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/validation"
)

// Options are the dependencies of the router.
type Options struct {
	DB        *sql.DB
	JWTSecret string

	// Tenant is written into issued tokens.
	Tenant string

	// Offices supplies the default office. Nil uses the database.
	Offices validation.OfficeSource

	// Location is the time zone of dates in change records. Nil means UTC.
	Location *time.Location
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	if opts.Offices == nil {
		opts.Offices = storeOffices(opts.DB)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	checker := validation.New(opts.Offices)
	sessionSource := &sessions{offices: opts.Offices}

	authHandler := &AuthHandler{DB: opts.DB, JWTSecret: opts.JWTSecret, Tenant: opts.Tenant}
	usersHandler := &UsersHandler{DB: opts.DB}
	membersHandler := &MembersHandler{DB: opts.DB, Validator: checker, Sessions: sessionSource}
	officesHandler := &OfficesHandler{DB: opts.DB}
	productsHandler := &ProductsHandler{DB: opts.DB, Validator: checker, Sessions: sessionSource, Location: opts.Location}
	shipmentsHandler := &ShipmentsHandler{DB: opts.DB, Location: opts.Location}
	validationsHandler := &ValidationsHandler{DB: opts.DB, Validator: checker, Sessions: sessionSource}
	changesHandler := &ChangesHandler{Location: opts.Location}

	mux := http.NewServeMux()

	authMW := AuthMiddleware(opts.JWTSecret, opts.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireManager(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Members: read (all roles), write (manager+).
	mux.Handle("GET /api/members", read(membersHandler.List))
	mux.Handle("POST /api/members", write(membersHandler.Create))
	mux.Handle("GET /api/members/{id}", read(membersHandler.Get))
	mux.Handle("PUT /api/members/{id}", write(membersHandler.Update))
	mux.Handle("DELETE /api/members/{id}", write(membersHandler.Delete))
	mux.Handle("POST /api/members/{id}/offboard", write(membersHandler.Offboard))

	mux.Handle("GET /api/offices/default", read(officesHandler.GetDefault))
	mux.Handle("PUT /api/offices/default", write(officesHandler.SetDefault))

	// Products.
	mux.Handle("GET /api/products", read(productsHandler.List))
	mux.Handle("POST /api/products", write(productsHandler.Create))
	mux.Handle("GET /api/products/{id}", read(productsHandler.Get))
	mux.Handle("PUT /api/products/{id}", write(productsHandler.Update))
	mux.Handle("DELETE /api/products/{id}", write(productsHandler.Delete))
	mux.Handle("PUT /api/products/{id}/image", write(productsHandler.UploadImage))
	mux.Handle("GET /api/products/{id}/image", read(productsHandler.GetImage))
	mux.Handle("POST /api/products/{id}/relocate", write(productsHandler.Relocate))
	mux.Handle("GET /api/products/{id}/history", read(productsHandler.History))

	// Shipments.
	mux.Handle("GET /api/shipments", read(shipmentsHandler.List))
	mux.Handle("POST /api/shipments", write(shipmentsHandler.Create))
	mux.Handle("GET /api/shipments/{id}", read(shipmentsHandler.Get))
	mux.Handle("PUT /api/shipments/{id}", write(shipmentsHandler.Update))
	mux.Handle("GET /api/shipments/{id}/history", read(shipmentsHandler.History))

	// Dry-run checks and diffs.
	mux.Handle("POST /api/validations/relocation", read(validationsHandler.Relocation))
	mux.Handle("POST /api/validations/create", read(validationsHandler.Create))
	mux.Handle("POST /api/changes/assets", read(changesHandler.Assets))
	mux.Handle("POST /api/changes/shipments", read(changesHandler.Shipments))

	return mux
}
