// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/dinner-pick/auth"
	"github.com/danielhkuo/dinner-pick/cliparse"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/middleware"
	"github.com/danielhkuo/dinner-pick/models"
)

type ElectionHandler struct {
	mgr *election.Manager
	cfg cliparse.Config
}

func NewElectionHandler(mgr *election.Manager, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{mgr: mgr, cfg: cfg}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name, err := cleanName("name", req.Name)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	adminName, err := cleanName("admin_name", req.AdminName)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	codeword, err := cleanName("group_codeword", req.GroupCodeword)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	visibility := strings.ToLower(strings.TrimSpace(req.BallotVisibility))
	switch visibility {
	case "", models.VisibilitySecret, models.VisibilityOpen:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "ballot_visibility must be secret or open")
		return
	}

	e, err := h.mgr.CreateElection(r.Context(), models.NewElection{
		Name:               name,
		AdminName:          adminName,
		GroupCodeword:      codeword,
		VoteStartTime:      req.VoteStartTime,
		BallotVisibility:   visibility,
		RetainIndefinitely: req.RetainIndefinitely,
	})
	if err != nil {
		slog.Error("failed to create election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: e.ID,
		AdminKey:   auth.GenerateAdminKey(e.ID, h.cfg.AdminKeySalt),
	})
}

// ListElections handles GET /elections
// Only summaries are listed; details need the group codeword.
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.mgr.ListElections(r.Context())
	if err != nil {
		writeManagerError(w, err, "list elections")
		return
	}

	now := time.Now()
	summaries := make([]models.ElectionSummary, 0, len(elections))
	for _, e := range elections {
		summaries = append(summaries, models.ElectionSummary{
			ID:        e.ID,
			Name:      e.Name,
			AdminName: e.AdminName,
			State:     e.State,
			Phase:     e.Phase(now),
			CreatedAt: e.CreatedAt,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListElectionsResponse{Elections: summaries})
}

// StartVoting handles POST /elections/{id}/start
func (h *ElectionHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.adminElectionID(w, r)
	if !ok {
		return
	}

	e, err := h.mgr.StartVoting(r.Context(), electionID)
	if err != nil {
		writeManagerError(w, err, "start voting")
		return
	}
	if e.IsTerminal() {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is already "+e.State)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}

// FinalizeElection handles POST /elections/{id}/finalize
func (h *ElectionHandler) FinalizeElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.adminElectionID(w, r)
	if !ok {
		return
	}

	e, err := h.mgr.FinalizeElection(r.Context(), electionID)
	if err != nil {
		writeManagerError(w, err, "finalize election")
		return
	}
	if e.State == models.StateCancelled {
		middleware.ErrorResponse(w, http.StatusConflict, "Election was cancelled")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}

// CancelElection handles POST /elections/{id}/cancel
func (h *ElectionHandler) CancelElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.adminElectionID(w, r)
	if !ok {
		return
	}

	e, err := h.mgr.CancelElection(r.Context(), electionID)
	if err != nil {
		writeManagerError(w, err, "cancel election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.adminElectionID(w, r)
	if !ok {
		return
	}

	if err := h.mgr.DeleteElection(r.Context(), electionID); err != nil {
		writeManagerError(w, err, "delete election")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// adminElectionID reads the election ID from the path and checks the admin key
func (h *ElectionHandler) adminElectionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return "", false
	}

	adminKey := r.Header.Get(auth.AdminKeyHeader)
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}
	return electionID, true
}
