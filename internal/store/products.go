package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/assetdesk/internal/model"
)

const productColumns = `id, name, category, status, serial_number, assigned_email, assigned_member,
	location, acquisition_date, attributes, image_mime, created_at, updated_at, deleted_at`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanProduct(s scanner, p *model.Product) error {
	var attributes string
	var imageMime sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Status, &p.SerialNumber, &p.AssignedEmail, &p.AssignedMember,
		&p.Location, &p.AcquisitionDate, &attributes, &imageMime, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return err
	}
	p.ImageMime = imageMime.String
	p.Attributes = []model.Attribute{}
	if attributes != "" {
		if err := json.Unmarshal([]byte(attributes), &p.Attributes); err != nil {
			return fmt.Errorf("decoding attributes: %w", err)
		}
	}
	return nil
}

func encodeAttributes(attrs []model.Attribute) (string, error) {
	if attrs == nil {
		attrs = []model.Attribute{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encoding attributes: %w", err)
	}
	return string(data), nil
}

func getProduct(ctx context.Context, q queryRower, id int64) (*model.Product, error) {
	p := &model.Product{}
	err := scanProduct(q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// GetProduct returns a product by ID, or nil if it does not exist.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	return getProduct(ctx, db, id)
}

// CreateProduct creates a product and records its creation.
func CreateProduct(ctx context.Context, db *sql.DB, p *model.Product, userID *int64) (*model.Product, error) {
	attributes, err := encodeAttributes(p.Attributes)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, category, status, serial_number, assigned_email, assigned_member,
		                       location, acquisition_date, attributes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Status, p.SerialNumber, p.AssignedEmail, p.AssignedMember,
		p.Location, p.AcquisitionDate, attributes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	created, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := recordActivity(ctx, tx, model.EntityProduct, id, model.ActionCreate, nil, created, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing product: %w", err)
	}
	return created, nil
}

// ProductFilter narrows ListProducts. Zero fields do not filter.
type ProductFilter struct {
	AssignedEmail string
	Location      string
	Category      string
	Status        string
}

// ListProducts returns non-deleted products matching the filter.
func ListProducts(ctx context.Context, db *sql.DB, f ProductFilter) ([]model.Product, error) {
	return listProducts(ctx, db, f)
}

func listProducts(ctx context.Context, db querier, f ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	var args []any

	if f.AssignedEmail != "" {
		query += ` AND assigned_email = ?`
		args = append(args, f.AssignedEmail)
	}
	if f.Location != "" {
		query += ` AND location = ?`
		args = append(args, f.Location)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}

	query += ` ORDER BY name, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's details (not its holder) and records the change.
func UpdateProduct(ctx context.Context, db *sql.DB, p *model.Product, userID *int64) (*model.Product, error) {
	attributes, err := encodeAttributes(p.Attributes)
	if err != nil {
		return nil, err
	}

	var updated *model.Product
	err = inTx(ctx, db, func(tx *sql.Tx) error {
		updated, err = mutateProduct(ctx, tx, p.ID, model.ActionUpdate, userID,
			`UPDATE products SET name = ?, category = ?, status = ?, serial_number = ?,
			        acquisition_date = ?, attributes = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND deleted_at IS NULL`,
			p.Name, p.Category, p.Status, p.SerialNumber, p.AcquisitionDate, attributes, p.ID,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return updated, nil
}

// Assignment is where a product is moved to.
type Assignment struct {
	Email      string
	MemberName string
	Location   string
	Status     string
}

// RelocateProduct moves a product to a new holder and records the change.
func RelocateProduct(ctx context.Context, db *sql.DB, id int64, to Assignment, action string, userID *int64) (*model.Product, error) {
	var moved *model.Product
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		moved, err = relocateProduct(ctx, tx, id, to, action, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("relocating product: %w", err)
	}
	return moved, nil
}

func relocateProduct(ctx context.Context, tx *sql.Tx, id int64, to Assignment, action string, userID *int64) (*model.Product, error) {
	return mutateProduct(ctx, tx, id, action, userID,
		`UPDATE products SET assigned_email = ?, assigned_member = ?, location = ?, status = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		to.Email, to.MemberName, to.Location, to.Status, id,
	)
}

// DeleteProduct soft-deletes a product and records the deletion.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64, userID *int64) error {
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		_, err := mutateProduct(ctx, tx, id, model.ActionDelete, userID,
			`UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
			id,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// mutateProduct runs the update statement against an active product and
// records the product before and after it.
func mutateProduct(ctx context.Context, tx *sql.Tx, id int64, action string, userID *int64, query string, args ...any) (*model.Product, error) {
	before, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if before == nil || before.DeletedAt != nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	after, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := recordActivity(ctx, tx, model.EntityProduct, id, action, before, after, userID); err != nil {
		return nil, err
	}
	return after, nil
}

// SetProductImage sets a product's image data.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	return nil
}

// GetProductImage returns a product's image data and MIME type.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}
