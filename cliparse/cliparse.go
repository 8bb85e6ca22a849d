// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort            = 3318
	DefaultDataFile        = "dinner-pick.db"
	DefaultRetentionWindow = 2 * time.Hour
)

type Config struct {
	Port int

	// Storage. Store forces a backend; when empty the first configured one
	// wins (see store.Detect).
	Store       string
	DatabaseURL string
	KVRestURL   string
	KVRestToken string
	RedisURL    string
	DataFile    string

	AdminKeySalt    string
	RetentionWindow time.Duration
}

// ParseFlags parses args, falling back to the environment for anything unset
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("dinner-pick", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")

	fs.StringVar(&cfg.Store, "store", "", "Storage backend (postgres, rest, redis or sqlite)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Postgres database URL")
	fs.StringVar(&cfg.KVRestURL, "kv-url", "", "Key-value REST API URL")
	fs.StringVar(&cfg.KVRestToken, "kv-token", "", "Key-value REST API token (prefer env)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL")
	fs.StringVar(&cfg.DataFile, "f", "", "SQLite data file")

	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.DurationVar(&cfg.RetentionWindow, "retention", 0, "How long an election is kept after creation")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	envFallback(&cfg.Store, "STORE_BACKEND")
	envFallback(&cfg.DatabaseURL, "DATABASE_URL")
	envFallback(&cfg.KVRestURL, "KV_REST_API_URL")
	envFallback(&cfg.KVRestToken, "KV_REST_API_TOKEN")
	envFallback(&cfg.RedisURL, "REDIS_URL")
	envFallback(&cfg.DataFile, "DATA_FILE")
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}

	if cfg.RetentionWindow == 0 {
		if s := os.Getenv("RETENTION_WINDOW"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, fmt.Errorf("invalid RETENTION_WINDOW env variable: %w", err)
			}
			cfg.RetentionWindow = d
		} else {
			cfg.RetentionWindow = DefaultRetentionWindow
		}
	}
	if cfg.RetentionWindow < 0 {
		return Config{}, errors.New("retention window must not be negative")
	}

	// Secrets - MUST be provided
	envFallback(&cfg.AdminKeySalt, "ADMIN_KEY_SALT")
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

func envFallback(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}
