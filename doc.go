// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Dinner Pick API server.

Dinner Pick lets a group nominate restaurants, rank them, and settle on one.
The winner is the Condorcet winner when one exists, otherwise the result of
an instant-runoff count.

# Starting the Server

	ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -admin-salt secret -store sqlite -f dinner.db

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Storage (the first one configured wins unless STORE_BACKEND is set):

  - DATABASE_URL (-d): PostgreSQL connection string
  - KV_REST_API_URL, KV_REST_API_TOKEN (-kv-url, -kv-token): Hosted key-value REST API
  - REDIS_URL (-redis): Redis server
  - DATA_FILE (-f): Local SQLite file (default: dinner-pick.db)
  - STORE_BACKEND (-store): Force one of postgres, rest, redis, sqlite

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - RETENTION_WINDOW (-retention): How long finished elections are kept (default: 2h)

# Architecture

  - handlers: HTTP request handlers (elections, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - election: Lifecycle manager and retention
  - tally: Pairwise matrix, Condorcet and instant-runoff counting
  - store: Election repository backends
  - models: Domain and request/response types
  - auth: Admin key and codeword checks
  - db: SQL schema
  - cliparse: Configuration parsing
*/
package main
