// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/dinner-pick/cliparse"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Detect picks the backend for cfg. An explicit cfg.Store wins; otherwise
// the first configured of Postgres, the REST key-value API, Redis, and
// finally the local SQLite file.
func Detect(cfg cliparse.Config) (Backend, error) {
	if cfg.Store != "" {
		b := Backend(strings.ToLower(strings.TrimSpace(cfg.Store)))
		switch b {
		case BackendPostgres, BackendREST, BackendRedis, BackendSQLite:
			return b, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Store)
	}

	switch {
	case cfg.DatabaseURL != "":
		return BackendPostgres, nil
	case cfg.KVRestURL != "" && cfg.KVRestToken != "":
		return BackendREST, nil
	case cfg.RedisURL != "":
		return BackendRedis, nil
	default:
		return BackendSQLite, nil
	}
}

// Open detects the backend and connects to it. The choice is logged once
// here and never revisited for the life of the process.
func Open(ctx context.Context, cfg cliparse.Config, logger *slog.Logger) (Repository, error) {
	logger = resolveLogger(logger)

	backend, err := Detect(cfg)
	if err != nil {
		return nil, err
	}

	var repo Repository
	switch backend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("postgres backend requires DATABASE_URL")
		}
		repo, err = OpenPostgres(ctx, cfg.DatabaseURL, logger)

	case BackendREST:
		if cfg.KVRestURL == "" || cfg.KVRestToken == "" {
			return nil, errors.New("rest backend requires KV_REST_API_URL and KV_REST_API_TOKEN")
		}
		rest := NewRESTStore(cfg.KVRestURL, cfg.KVRestToken, nil, logger)
		if err = rest.Ping(ctx); err != nil {
			err = fmt.Errorf("kv rest ping failed: %w", err)
		}
		repo = rest

	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("redis backend requires REDIS_URL")
		}
		repo, err = OpenRedis(ctx, cfg.RedisURL, logger)

	case BackendSQLite:
		repo, err = OpenSQLite(ctx, cfg.DataFile, logger)
	}
	if err != nil {
		return nil, err
	}

	attrs := []any{"backend", string(backend)}
	if backend == BackendSQLite {
		attrs = append(attrs, "file", cfg.DataFile)
	}
	logger.Info("election store ready", attrs...)

	return repo, nil
}
