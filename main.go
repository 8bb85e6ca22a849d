// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/dinner-pick/cliparse"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/middleware"
	"github.com/danielhkuo/dinner-pick/router"
	"github.com/danielhkuo/dinner-pick/store"
)

func main() {
	logger := slog.Default()

	// A missing .env is fine; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		logger.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	repo, err := store.Open(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("election store unavailable", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	mgr := election.NewManager(repo, election.Config{
		Retention: cfg.RetentionWindow,
		Logger:    logger,
	})

	mux := router.NewRouter(mgr, cfg)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	logger.Info("Listening", "port", cfg.Port, "retention", cfg.RetentionWindow.String())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server closed", "error", err)
	} else {
		logger.Info("Server closed")
	}
}
