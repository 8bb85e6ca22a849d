// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - Store: Forced storage backend; empty means auto-detect
  - DatabaseURL: PostgreSQL connection string
  - KVRestURL, KVRestToken: Hosted key-value REST endpoint and token
  - RedisURL: Redis server URL
  - DataFile: SQLite file used when nothing else is configured (default: dinner-pick.db)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RetentionWindow: How long an election is kept after creation (default: 2h)

# CLI Flags

	-p           Server port
	-store       Storage backend
	-d           Postgres database URL
	-kv-url      Key-value REST API URL
	-kv-token    Key-value REST API token
	-redis       Redis URL
	-f           SQLite data file
	-admin-salt  Admin key salt
	-retention   Retention window (Go duration, e.g. 2h)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	STORE_BACKEND     → -store
	DATABASE_URL      → -d
	KV_REST_API_URL   → -kv-url
	KV_REST_API_TOKEN → -kv-token
	REDIS_URL         → -redis
	DATA_FILE         → -f
	ADMIN_KEY_SALT    → -admin-salt
	RETENTION_WINDOW  → -retention

CLI flags take precedence over environment variables. main loads a .env
file (if present) before parsing, so the same names work there too.

# Validation

ParseFlags returns an error if:

  - ADMIN_KEY_SALT is missing
  - PORT or RETENTION_WINDOW cannot be parsed
  - the retention window is negative

Storage settings are not validated here; store.Open reports a backend
that was selected but is missing its settings.
*/
package cliparse
