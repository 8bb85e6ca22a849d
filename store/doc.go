// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists elections behind a single Repository interface.

# Backends

Four implementations are available:

  - SQLStore on Postgres (lib/pq), one JSONB row per election
  - SQLStore on SQLite (modernc.org/sqlite), the same table in a local file
  - RESTStore, a hosted key-value service reached over its HTTP command API
  - RedisStore, a Redis server reached over TCP (go-redis)

Open chooses one at startup from cliparse.Config:

	repo, err := store.Open(ctx, cfg, logger)

An explicit STORE_BACKEND wins. Otherwise the first configured of
DATABASE_URL, KV_REST_API_URL + KV_REST_API_TOKEN, and REDIS_URL is used,
falling back to the SQLite DATA_FILE.

# Versioning

Every stored election carries a version. SaveElection writes only when
the stored version still equals e.Version (0 for a new election) and then
increments e.Version. A concurrent writer that got there first causes
ErrVersionConflict; callers reload and retry.

SQL backends do this with a conditional UPDATE. Key-value backends run a
Lua script that compares the version and writes the hash atomically:

	election:{id}  hash {version, data}
	elections:ids  set of election IDs

# Encoding

SQL and REST backends store the election as JSON. Redis stores it as
msgpack keyed by the same json field names.

# Errors

GetElection returns ErrNotFound for unknown IDs. Any other backend failure
is logged with the backend name and operation, then returned.
*/
package store
