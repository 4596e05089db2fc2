// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Engines

Open selects the driver from configuration:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

"sqlite" uses modernc.org/sqlite (no cgo), "postgres" uses lib/pq. The
schema and every query in the application use $n placeholders and
parameter-bound timestamps so the same statements run on both engines.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - users: accounts with role attribute and point balance
  - forms: survey definitions with lifecycle flags
  - form_responses: append-only submissions
  - io_documents: shared document library

# Relationships

	forms 1──* form_responses (ON DELETE CASCADE)

Questions, tags, and answers are stored as JSON text columns; expiry
dates are ISO "YYYY-MM-DD" text so date comparisons are portable.
*/
package db
