// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/danielhkuo/dinner-pick/models"
)

var (
	ErrNotFound        = errors.New("election not found")
	ErrVersionConflict = errors.New("election version conflict")
)

// Repository persists whole election aggregates keyed by ID.
//
// SaveElection is a conditional write: it succeeds only when the stored
// version equals e.Version (0 meaning "must not exist yet") and bumps
// e.Version on success. Otherwise it returns ErrVersionConflict.
// DeleteElection succeeds for unknown IDs.
type Repository interface {
	GetElection(ctx context.Context, id string) (models.Election, error)
	SaveElection(ctx context.Context, e *models.Election) error
	ListElections(ctx context.Context) ([]models.Election, error)
	DeleteElection(ctx context.Context, id string) error
	Close() error
}

// Backend names a Repository implementation
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendREST     Backend = "rest"
	BackendRedis    Backend = "redis"
	BackendSQLite   Backend = "sqlite"
)

const (
	electionKeyPrefix = "election:"
	electionIDsKey    = "elections:ids"
)

func electionKey(id string) string {
	return electionKeyPrefix + id
}

func encodeJSON(e models.Election) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode election %s: %w", e.ID, err)
	}
	return payload, nil
}

func decodeJSON(payload []byte) (models.Election, error) {
	var e models.Election
	if err := json.Unmarshal(payload, &e); err != nil {
		return models.Election{}, fmt.Errorf("failed to decode election: %w", err)
	}
	return e, nil
}

// logError logs a failed backend call and hands the error back
func logError(logger *slog.Logger, backend Backend, op string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"backend", string(backend),
		"op", op,
		"error", err,
	)
	fields = append(fields, attrs...)
	logger.Error("election store operation failed", fields...)
	return err
}

// sortByCreation orders elections oldest first, matching the SQL backends
func sortByCreation(elections []models.Election) {
	sort.Slice(elections, func(i, j int) bool {
		a, b := elections[i], elections[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
