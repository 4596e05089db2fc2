// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database engine.
// dbType is "sqlite" or "postgres"; url is the driver DSN.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "postgres":
		return sql.Open("postgres", url)
	case "sqlite":
		// sqlite ships with foreign keys off; the response cascade
		// depends on them.
		if !strings.Contains(url, "_pragma") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "_pragma=foreign_keys(1)"
		}
		return sql.Open("sqlite", url)
	default:
		return nil, fmt.Errorf("unsupported database type: %q", dbType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	// Auto-assigned numeric ids are the one place the engines
	// disagree on DDL.
	idCol := "INTEGER PRIMARY KEY"
	if dbType == "postgres" {
		idCol = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{ID}", idCol))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements below run unchanged on sqlite and Postgres: no
// engine-specific defaults, dates held as ISO text, timestamps bound
// as parameters by the callers.
const schema = `
-- Users (admins are users with role = 'admin')
CREATE TABLE IF NOT EXISTS users (
    id {ID},
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT,
    current_position TEXT,
    industry TEXT,
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    point INTEGER NOT NULL DEFAULT 0 CHECK (point >= 0),
    profile_picture TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Forms
CREATE TABLE IF NOT EXISTS forms (
    id {ID},
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    questions TEXT NOT NULL,
    tags TEXT NOT NULL,
    expiry_date TEXT NOT NULL,
    form_profile_photo TEXT,
    owner_email TEXT NOT NULL,
    owner_name TEXT,
    owner_profile_picture TEXT,
    is_published BOOLEAN NOT NULL DEFAULT FALSE,
    is_draft BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forms_owner_email ON forms(owner_email);
CREATE INDEX IF NOT EXISTS idx_forms_expiry ON forms(expiry_date, is_published);

-- Form responses (append-only)
CREATE TABLE IF NOT EXISTS form_responses (
    id {ID},
    form_id BIGINT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
    user_email TEXT NOT NULL,
    answers TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_form_responses_form_id ON form_responses(form_id);

-- IO documents
CREATE TABLE IF NOT EXISTS io_documents (
    id {ID},
    profile_photo TEXT,
    tags TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pdf_file TEXT NOT NULL,
    owner_email TEXT NOT NULL,
    owner_name TEXT,
    owner_profile_picture TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_io_documents_owner_email ON io_documents(owner_email);
`
