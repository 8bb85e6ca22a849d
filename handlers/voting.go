// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/middleware"
	"github.com/danielhkuo/dinner-pick/models"
)

// VotingHandler serves the group member actions. Every request must carry
// the election's codeword.
type VotingHandler struct {
	mgr *election.Manager
}

func NewVotingHandler(mgr *election.Manager) *VotingHandler {
	return &VotingHandler{mgr: mgr}
}

// JoinElection handles POST /elections/{id}/participants
func (h *VotingHandler) JoinElection(w http.ResponseWriter, r *http.Request) {
	e, ok := memberElection(w, r, h.mgr)
	if !ok {
		return
	}

	var req models.JoinElectionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	name, err := cleanName("name", req.Name)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if e.IsTerminal() {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is "+e.State)
		return
	}

	e, err = h.mgr.AddParticipant(r.Context(), e.ID, name)
	if err != nil {
		writeManagerError(w, err, "join election")
		return
	}

	slog.Info("participant joined", "election_id", e.ID, "name", name)
	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}

// AddNomination handles POST /elections/{id}/nominations
// Only allowed while the election is taking nominations.
func (h *VotingHandler) AddNomination(w http.ResponseWriter, r *http.Request) {
	e, ok := memberElection(w, r, h.mgr)
	if !ok {
		return
	}

	var req models.AddNominationRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	nominator, err := cleanName("nominator_name", req.NominatorName)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	restaurant, err := cleanName("restaurant_name", req.RestaurantName)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if phase := e.Phase(time.Now()); phase != models.StateNomination {
		middleware.ErrorResponse(w, http.StatusConflict, "Nominations are closed (election is in "+phase+")")
		return
	}

	n, err := h.mgr.AddNomination(r.Context(), e.ID, models.Nomination{
		NominatorName:  nominator,
		RestaurantName: restaurant,
		IsWriteIn:      req.IsWriteIn,
		Metadata:       req.Metadata,
	}, election.RequirePhase(models.StateNomination))
	if err != nil {
		writeManagerError(w, err, "add nomination")
		return
	}

	slog.Info("nomination added",
		"election_id", e.ID,
		"nomination_id", n.ID,
		"nominator", n.NominatorName,
		"write_in", n.IsWriteIn,
	)
	middleware.JSONResponse(w, http.StatusCreated, n)
}

// RemoveNomination handles DELETE /elections/{id}/nominations/{nominationId}
func (h *VotingHandler) RemoveNomination(w http.ResponseWriter, r *http.Request) {
	e, ok := memberElection(w, r, h.mgr)
	if !ok {
		return
	}

	nominationID := r.PathValue("nominationId")
	if nominationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nomination id is required")
		return
	}

	e, err := h.mgr.RemoveNomination(r.Context(), e.ID, nominationID)
	if err != nil {
		writeManagerError(w, err, "remove nomination")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}

// SubmitVote handles POST /elections/{id}/votes
// A second vote under the same name replaces the first.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	e, ok := memberElection(w, r, h.mgr)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	voter, err := cleanName("voter_name", req.VoterName)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if phase := e.Phase(time.Now()); phase != models.StateVoting {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is not open (election is in "+phase+")")
		return
	}
	if err := checkRankings(e, req.Rankings); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err = h.mgr.AddVote(r.Context(), e.ID, models.Vote{
		VoterName: voter,
		Rankings:  req.Rankings,
	}, election.RequirePhase(models.StateVoting))
	if err != nil {
		writeManagerError(w, err, "submit vote")
		return
	}

	slog.Info("vote recorded", "election_id", e.ID, "voter", voter, "ranked", len(req.Rankings))
	middleware.JSONResponse(w, http.StatusOK, toResponse(e, time.Now()))
}
