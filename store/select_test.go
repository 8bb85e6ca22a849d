// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/dinner-pick/cliparse"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		cfg      cliparse.Config
		expected Backend
	}{
		{"nothing configured", cliparse.Config{}, BackendSQLite},
		{"redis only", cliparse.Config{RedisURL: "redis://x"}, BackendRedis},
		{"rest needs token", cliparse.Config{KVRestURL: "https://kv", RedisURL: "redis://x"}, BackendRedis},
		{"rest beats redis", cliparse.Config{KVRestURL: "https://kv", KVRestToken: "t", RedisURL: "redis://x"}, BackendREST},
		{"postgres beats all", cliparse.Config{DatabaseURL: "postgres://x", KVRestURL: "https://kv", KVRestToken: "t", RedisURL: "redis://x"}, BackendPostgres},
		{"explicit wins", cliparse.Config{Store: "sqlite", DatabaseURL: "postgres://x"}, BackendSQLite},
		{"explicit case insensitive", cliparse.Config{Store: " Redis "}, BackendRedis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.cfg)
			if err != nil {
				t.Fatalf("Detect() failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Detect() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestDetect_UnknownBackend(t *testing.T) {
	_, err := Detect(cliparse.Config{Store: "dynamo"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpen_SQLiteFallback(t *testing.T) {
	cfg := cliparse.Config{DataFile: filepath.Join(t.TempDir(), "fallback.db")}

	repo, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer repo.Close()

	if _, ok := repo.(*SQLStore); !ok {
		t.Errorf("Expected *SQLStore, got %T", repo)
	}
}

func TestOpen_MissingSettings(t *testing.T) {
	tests := []cliparse.Config{
		{Store: "postgres"},
		{Store: "rest", KVRestURL: "https://kv"},
		{Store: "redis"},
	}

	for _, cfg := range tests {
		t.Run(cfg.Store, func(t *testing.T) {
			if _, err := Open(context.Background(), cfg, nil); err == nil {
				t.Error("Expected error for backend without settings")
			}
		})
	}
}
