// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/dinner-pick/db"
	"github.com/danielhkuo/dinner-pick/models"
)

// SQLStore keeps each election as one row. It serves both the managed
// Postgres database and the local SQLite file.
type SQLStore struct {
	conn    *sql.DB
	dialect db.Dialect
	logger  *slog.Logger
}

// OpenPostgres connects to a Postgres database and creates the schema
func OpenPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*SQLStore, error) {
	conn, err := sql.Open(db.Postgres.DriverName(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return newSQLStore(ctx, conn, db.Postgres, logger)
}

// OpenSQLite opens (creating if needed) a local SQLite file
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLStore, error) {
	conn, err := sql.Open(db.SQLite.DriverName(), path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open failed: %w", err)
	}
	// One writer at a time; SQLite locks the whole file anyway
	conn.SetMaxOpenConns(1)
	return newSQLStore(ctx, conn, db.SQLite, logger)
}

func newSQLStore(ctx context.Context, conn *sql.DB, dialect db.Dialect, logger *slog.Logger) (*SQLStore, error) {
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := db.CreateSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLStore{conn: conn, dialect: dialect, logger: resolveLogger(logger)}, nil
}

func (s *SQLStore) backend() Backend {
	if s.dialect == db.Postgres {
		return BackendPostgres
	}
	return BackendSQLite
}

func (s *SQLStore) GetElection(ctx context.Context, id string) (models.Election, error) {
	var payload []byte
	err := s.conn.QueryRowContext(ctx,
		`SELECT payload FROM election WHERE id = `+s.dialect.Placeholder(1),
		id,
	).Scan(&payload)

	if err == sql.ErrNoRows {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, logError(s.logger, s.backend(), "get", err, "election_id", id)
	}

	e, err := decodeJSON(payload)
	if err != nil {
		return models.Election{}, logError(s.logger, s.backend(), "get", err, "election_id", id)
	}
	return e, nil
}

func (s *SQLStore) SaveElection(ctx context.Context, e *models.Election) error {
	next := *e
	next.Version = e.Version + 1

	payload, err := encodeJSON(next)
	if err != nil {
		return err
	}

	p := s.dialect.Placeholder
	now := time.Now().UTC()

	var res sql.Result
	if e.Version == 0 {
		res, err = s.conn.ExecContext(ctx, `
			INSERT INTO election (id, version, payload, created_at, updated_at)
			VALUES (`+p(1)+`, `+p(2)+`, `+p(3)+`, `+p(4)+`, `+p(5)+`)
			ON CONFLICT (id) DO NOTHING
		`, next.ID, next.Version, string(payload), next.CreatedAt.UTC(), now)
	} else {
		res, err = s.conn.ExecContext(ctx, `
			UPDATE election
			SET version = `+p(1)+`, payload = `+p(2)+`, updated_at = `+p(3)+`
			WHERE id = `+p(4)+` AND version = `+p(5),
			next.Version, string(payload), now, next.ID, e.Version)
	}
	if err != nil {
		return logError(s.logger, s.backend(), "save", err, "election_id", e.ID)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return logError(s.logger, s.backend(), "save", err, "election_id", e.ID)
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	e.Version = next.Version
	return nil
}

func (s *SQLStore) ListElections(ctx context.Context) ([]models.Election, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, payload FROM election ORDER BY created_at, id
	`)
	if err != nil {
		return nil, logError(s.logger, s.backend(), "list", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, logError(s.logger, s.backend(), "list", err)
		}
		e, err := decodeJSON(payload)
		if err != nil {
			// Skip the unreadable row rather than failing the whole list
			logError(s.logger, s.backend(), "list", err, "election_id", id)
			continue
		}
		elections = append(elections, e)
	}

	if err := rows.Err(); err != nil {
		return nil, logError(s.logger, s.backend(), "list", err)
	}
	return elections, nil
}

func (s *SQLStore) DeleteElection(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM election WHERE id = `+s.dialect.Placeholder(1),
		id,
	)
	if err != nil {
		return logError(s.logger, s.backend(), "delete", err, "election_id", id)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}

var _ Repository = (*SQLStore)(nil)
