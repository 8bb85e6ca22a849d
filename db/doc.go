// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL storage backends.

# Dialects

Two dialects share one table layout:

  - Postgres: managed database (lib/pq), payload stored as JSONB
  - SQLite: local-file fallback (modernc.org/sqlite), payload stored as TEXT

Placeholder hides the bind-parameter difference:

	q := "SELECT payload FROM election WHERE id = " + d.Placeholder(1)

# Schema Creation

CreateSchema initializes the election table:

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and index.

# Tables

  - election: id, version, payload, created_at, updated_at

The payload is the full election aggregate. version backs the
compare-and-swap in conditional writes.
*/
package db
