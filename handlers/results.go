// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/middleware"
)

type ResultsHandler struct {
	mgr *election.Manager
}

func NewResultsHandler(mgr *election.Manager) *ResultsHandler {
	return &ResultsHandler{mgr: mgr}
}

// GetElection handles GET /elections/{id}
// Returns the election with its result once finalized. The codeword is
// never included, and individual ballots only appear for completed
// open-ballot elections.
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, ok := memberElection(w, r, h.mgr)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}
