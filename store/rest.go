// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/dinner-pick/models"
)

// RESTStore talks to a hosted key-value service through its HTTP command
// API: each call POSTs a JSON array such as ["HGET","key","field"] and gets
// back {"result": ...} or {"error": "..."}.
type RESTStore struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// NewRESTStore builds a client for the given endpoint. A nil client gets a
// 10 second timeout.
func NewRESTStore(baseURL, token string, client *http.Client, logger *slog.Logger) *RESTStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		logger:  resolveLogger(logger),
	}
}

type restResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// do runs one command and returns the raw result
func (s *RESTStore) do(ctx context.Context, args ...string) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", args[0], err)
	}
	defer resp.Body.Close()

	var out restResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s response (status %d) unreadable: %w", args[0], resp.StatusCode, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%s failed: %s", args[0], out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed with status %d", args[0], resp.StatusCode)
	}
	return out.Result, nil
}

// Ping checks credentials and connectivity
func (s *RESTStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, "PING")
	return err
}

func (s *RESTStore) GetElection(ctx context.Context, id string) (models.Election, error) {
	raw, err := s.do(ctx, "HGET", electionKey(id), "data")
	if err != nil {
		return models.Election{}, logError(s.logger, BackendREST, "get", err, "election_id", id)
	}

	var data *string
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.Election{}, logError(s.logger, BackendREST, "get", err, "election_id", id)
	}
	if data == nil {
		return models.Election{}, ErrNotFound
	}

	e, err := decodeJSON([]byte(*data))
	if err != nil {
		return models.Election{}, logError(s.logger, BackendREST, "get", err, "election_id", id)
	}
	return e, nil
}

func (s *RESTStore) SaveElection(ctx context.Context, e *models.Election) error {
	next := *e
	next.Version = e.Version + 1

	payload, err := encodeJSON(next)
	if err != nil {
		return err
	}

	raw, err := s.do(ctx, "EVAL", saveScriptSrc, "2",
		electionKey(e.ID), electionIDsKey,
		strconv.FormatInt(e.Version, 10),
		strconv.FormatInt(next.Version, 10),
		string(payload),
		e.ID,
	)
	if err != nil {
		return logError(s.logger, BackendREST, "save", err, "election_id", e.ID)
	}

	var ok int64
	if err := json.Unmarshal(raw, &ok); err != nil {
		return logError(s.logger, BackendREST, "save", err, "election_id", e.ID)
	}
	if ok != 1 {
		return ErrVersionConflict
	}

	e.Version = next.Version
	return nil
}

func (s *RESTStore) ListElections(ctx context.Context) ([]models.Election, error) {
	raw, err := s.do(ctx, "SMEMBERS", electionIDsKey)
	if err != nil {
		return nil, logError(s.logger, BackendREST, "list", err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, logError(s.logger, BackendREST, "list", err)
	}

	elections := make([]models.Election, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetElection(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Blob is gone but the ID lingers in the set
			if _, err := s.do(ctx, "SREM", electionIDsKey, id); err != nil {
				logError(s.logger, BackendREST, "list", err, "election_id", id)
			}
			continue
		}
		if err != nil {
			continue
		}
		elections = append(elections, e)
	}

	sortByCreation(elections)
	return elections, nil
}

func (s *RESTStore) DeleteElection(ctx context.Context, id string) error {
	_, err := s.do(ctx, "EVAL", deleteScriptSrc, "2", electionKey(id), electionIDsKey, id)
	if err != nil {
		return logError(s.logger, BackendREST, "delete", err, "election_id", id)
	}
	return nil
}

func (s *RESTStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

var _ Repository = (*RESTStore)(nil)
