package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/assetdesk/internal/model"
)

const memberColumns = `id, first_name, last_name, email, personal_email, phone, dni,
	country, city, zip_code, address, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(s scanner, m *model.Member) error {
	return s.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PersonalEmail, &m.Phone, &m.DNI,
		&m.Country, &m.City, &m.ZipCode, &m.Address, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
}

// CreateMember creates a new member.
func CreateMember(ctx context.Context, db *sql.DB, m *model.Member) (*model.Member, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO members (first_name, last_name, email, personal_email, phone, dni, country, city, zip_code, address)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.FirstName, m.LastName, m.Email, m.PersonalEmail, m.Phone, m.DNI, m.Country, m.City, m.ZipCode, m.Address,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating member %s: %w", m.Email, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting member id: %w", err)
	}

	return GetMember(ctx, db, id)
}

// GetMember returns a member by ID, or nil if it does not exist.
func GetMember(ctx context.Context, db *sql.DB, id int64) (*model.Member, error) {
	return getMember(ctx, db, id)
}

func getMember(ctx context.Context, q queryRower, id int64) (*model.Member, error) {
	m := &model.Member{}
	err := scanMember(q.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id,
	), m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// GetMemberByEmail returns an active member by work email, or nil.
func GetMemberByEmail(ctx context.Context, db *sql.DB, email string) (*model.Member, error) {
	m := &model.Member{}
	err := scanMember(db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = ? AND deleted_at IS NULL`, email,
	), m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member by email: %w", err)
	}
	return m, nil
}

// ListMembers returns all non-deleted members ordered by name.
func ListMembers(ctx context.Context, db *sql.DB) ([]model.Member, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE deleted_at IS NULL ORDER BY first_name, last_name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMember updates a member's details. The work email cannot change.
func UpdateMember(ctx context.Context, db *sql.DB, m *model.Member) error {
	_, err := db.ExecContext(ctx,
		`UPDATE members SET first_name = ?, last_name = ?, personal_email = ?, phone = ?, dni = ?,
		        country = ?, city = ?, zip_code = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		m.FirstName, m.LastName, m.PersonalEmail, m.Phone, m.DNI, m.Country, m.City, m.ZipCode, m.Address, m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}
	return nil
}

// DeleteMember soft-deletes a member. Fails if the member still holds products.
func DeleteMember(ctx context.Context, db *sql.DB, id int64) error {
	m, err := GetMember(ctx, db, id)
	if err != nil {
		return err
	}
	if m == nil || m.DeletedAt != nil {
		return fmt.Errorf("member %d: %w", id, ErrNotFound)
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE assigned_email = ? AND deleted_at IS NULL`, m.Email,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking member products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete member: still holds %d products", count)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE members SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

// OffboardMember returns every product the member holds to the given
// assignment and soft-deletes the member, all in one transaction. It returns
// the moved products.
func OffboardMember(ctx context.Context, db *sql.DB, id int64, to Assignment, userID *int64) ([]*model.Product, error) {
	var moved []*model.Product
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		m, err := getMember(ctx, tx, id)
		if err != nil {
			return err
		}
		if m == nil || m.DeletedAt != nil {
			return fmt.Errorf("member %d: %w", id, ErrNotFound)
		}

		held, err := listProducts(ctx, tx, ProductFilter{AssignedEmail: m.Email})
		if err != nil {
			return err
		}
		for _, p := range held {
			product, err := relocateProduct(ctx, tx, p.ID, to, model.ActionOffboard, userID)
			if err != nil {
				return err
			}
			moved = append(moved, product)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE members SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
		)
		if err != nil {
			return fmt.Errorf("deleting member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("offboarding member: %w", err)
	}
	return moved, nil
}
