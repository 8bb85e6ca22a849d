// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/danielhkuo/dinner-pick/models"
)

var (
	saveScript   = redis.NewScript(saveScriptSrc)
	deleteScript = redis.NewScript(deleteScriptSrc)
)

// RedisStore keeps elections in a Redis server reached over TCP. Blobs are
// msgpack encoded using the models' json field names.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// OpenRedis connects using a redis:// or rediss:// URL
func OpenRedis(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.WithContext(ctx).Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, logger: resolveLogger(logger)}, nil
}

func encodeMsgpack(e models.Election) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode election %s: %w", e.ID, err)
	}
	return buf.Bytes(), nil
}

func decodeMsgpack(payload []byte) (models.Election, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")

	var e models.Election
	if err := dec.Decode(&e); err != nil {
		return models.Election{}, fmt.Errorf("failed to decode election: %w", err)
	}
	return e, nil
}

func (s *RedisStore) GetElection(ctx context.Context, id string) (models.Election, error) {
	payload, err := s.client.WithContext(ctx).HGet(electionKey(id), "data").Bytes()
	if err == redis.Nil {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, logError(s.logger, BackendRedis, "get", err, "election_id", id)
	}

	e, err := decodeMsgpack(payload)
	if err != nil {
		return models.Election{}, logError(s.logger, BackendRedis, "get", err, "election_id", id)
	}
	return e, nil
}

func (s *RedisStore) SaveElection(ctx context.Context, e *models.Election) error {
	next := *e
	next.Version = e.Version + 1

	payload, err := encodeMsgpack(next)
	if err != nil {
		return err
	}

	ok, err := saveScript.Run(s.client.WithContext(ctx),
		[]string{electionKey(e.ID), electionIDsKey},
		strconv.FormatInt(e.Version, 10),
		strconv.FormatInt(next.Version, 10),
		payload,
		e.ID,
	).Int64()
	if err != nil {
		return logError(s.logger, BackendRedis, "save", err, "election_id", e.ID)
	}
	if ok != 1 {
		return ErrVersionConflict
	}

	e.Version = next.Version
	return nil
}

func (s *RedisStore) ListElections(ctx context.Context) ([]models.Election, error) {
	client := s.client.WithContext(ctx)

	ids, err := client.SMembers(electionIDsKey).Result()
	if err != nil {
		return nil, logError(s.logger, BackendRedis, "list", err)
	}

	elections := make([]models.Election, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetElection(ctx, id)
		if errors.Is(err, ErrNotFound) {
			if err := client.SRem(electionIDsKey, id).Err(); err != nil {
				logError(s.logger, BackendRedis, "list", err, "election_id", id)
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

func (s *RedisStore) DeleteElection(ctx context.Context, id string) error {
	err := deleteScript.Run(s.client.WithContext(ctx),
		[]string{electionKey(id), electionIDsKey},
		id,
	).Err()
	if err != nil {
		return logError(s.logger, BackendRedis, "delete", err, "election_id", id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Repository = (*RedisStore)(nil)
