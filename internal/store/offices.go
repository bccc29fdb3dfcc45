package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/assetdesk/internal/model"
)

// GetDefaultOffice returns the tenant's default office, or nil if none is set.
func GetDefaultOffice(ctx context.Context, db *sql.DB) (*model.Office, error) {
	o := &model.Office{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, country, city, state, zip_code, address, updated_at
		 FROM offices WHERE is_default = 1`,
	).Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &o.Country, &o.City, &o.State, &o.ZipCode, &o.Address, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting default office: %w", err)
	}
	o.Location = model.LocationOffice
	return o, nil
}

// SetDefaultOffice creates or replaces the default office details.
func SetDefaultOffice(ctx context.Context, db *sql.DB, o *model.Office) (*model.Office, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE offices SET name = ?, email = ?, phone = ?, country = ?, city = ?, state = ?,
		        zip_code = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE is_default = 1`,
		o.Name, o.Email, o.Phone, o.Country, o.City, o.State, o.ZipCode, o.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("updating default office: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO offices (name, email, phone, country, city, state, zip_code, address, is_default)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			o.Name, o.Email, o.Phone, o.Country, o.City, o.State, o.ZipCode, o.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("creating default office: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing default office: %w", err)
	}
	return GetDefaultOffice(ctx, db)
}

// Offices serves the default office from the database.
type Offices struct {
	DB *sql.DB
}

// DefaultOffice implements validation.OfficeSource.
func (o Offices) DefaultOffice(ctx context.Context) (*model.Office, error) {
	return GetDefaultOffice(ctx, o.DB)
}
