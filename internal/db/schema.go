package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    id             INTEGER PRIMARY KEY,
    first_name     TEXT NOT NULL DEFAULT '',
    last_name      TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL,
    personal_email TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    dni            TEXT NOT NULL DEFAULT '',
    country        TEXT NOT NULL DEFAULT '',
    city           TEXT NOT NULL DEFAULT '',
    zip_code       TEXT NOT NULL DEFAULT '',
    address        TEXT NOT NULL DEFAULT '',
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at     DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email_active
    ON members(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS offices (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT '',
    phone      TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    state      TEXT NOT NULL DEFAULT '',
    zip_code   TEXT NOT NULL DEFAULT '',
    address    TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_offices_default
    ON offices(is_default) WHERE is_default = 1;

CREATE TABLE IF NOT EXISTS products (
    id               INTEGER PRIMARY KEY,
    name             TEXT NOT NULL,
    category         TEXT NOT NULL DEFAULT '',
    status           TEXT NOT NULL DEFAULT 'Available',
    serial_number    TEXT NOT NULL DEFAULT '',
    assigned_email   TEXT NOT NULL DEFAULT '',
    assigned_member  TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    acquisition_date TEXT NOT NULL DEFAULT '',
    attributes       TEXT NOT NULL DEFAULT '[]',
    image            BLOB,
    image_mime       TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at       DATETIME
);

CREATE INDEX IF NOT EXISTS idx_products_assigned_email ON products(assigned_email);

CREATE TABLE IF NOT EXISTS shipments (
    id                  INTEGER PRIMARY KEY,
    order_id            TEXT NOT NULL,
    status              TEXT NOT NULL,
    type                TEXT NOT NULL DEFAULT '',
    price_amount        TEXT NOT NULL DEFAULT '0',
    price_currency      TEXT NOT NULL DEFAULT '',
    origin              TEXT NOT NULL DEFAULT '',
    destination         TEXT NOT NULL DEFAULT '',
    origin_details      TEXT NOT NULL DEFAULT '{}',
    destination_details TEXT NOT NULL DEFAULT '{}',
    snapshots           TEXT NOT NULL DEFAULT '[]',
    order_date          TEXT NOT NULL DEFAULT '',
    tracking_url        TEXT NOT NULL DEFAULT '',
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at          DATETIME
);

CREATE TABLE IF NOT EXISTS activity (
    id          INTEGER PRIMARY KEY,
    entity_type TEXT NOT NULL CHECK (entity_type IN ('product', 'shipment')),
    entity_id   INTEGER NOT NULL,
    action      TEXT NOT NULL,
    old_data    TEXT NOT NULL DEFAULT '{}',
    new_data    TEXT NOT NULL DEFAULT '{}',
    patch       TEXT,
    user_id     INTEGER REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_entity ON activity(entity_type, entity_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
