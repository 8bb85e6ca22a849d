// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/dinner-pick/cliparse"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/handlers"
	"github.com/danielhkuo/dinner-pick/middleware"
)

func NewRouter(mgr *election.Manager, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	electionHandler := handlers.NewElectionHandler(mgr, cfg)
	votingHandler := handlers.NewVotingHandler(mgr)
	resultsHandler := handlers.NewResultsHandler(mgr)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Election lifecycle (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("POST /elections/{id}/start", middleware.WithLogging(electionHandler.StartVoting))
	mux.HandleFunc("POST /elections/{id}/finalize", middleware.WithLogging(electionHandler.FinalizeElection))
	mux.HandleFunc("POST /elections/{id}/cancel", middleware.WithLogging(electionHandler.CancelElection))
	mux.HandleFunc("DELETE /elections/{id}", middleware.WithLogging(electionHandler.DeleteElection))

	// Group members (codeword)
	mux.HandleFunc("POST /elections/{id}/participants", middleware.WithLogging(votingHandler.JoinElection))
	mux.HandleFunc("POST /elections/{id}/nominations", middleware.WithLogging(votingHandler.AddNomination))
	mux.HandleFunc("DELETE /elections/{id}/nominations/{nominationId}", middleware.WithLogging(votingHandler.RemoveNomination))
	mux.HandleFunc("POST /elections/{id}/votes", middleware.WithLogging(votingHandler.SubmitVote))

	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(resultsHandler.GetElection))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("dinner-pick API v1"))
	})

	return mux
}
