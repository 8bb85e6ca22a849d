// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/dinner-pick/auth"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/middleware"
	"github.com/danielhkuo/dinner-pick/models"
)

// MaxNameLength bounds every user-supplied name
const MaxNameLength = 50

// cleanName trims s and checks it is between 1 and MaxNameLength characters
func cleanName(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(s) > MaxNameLength {
		return "", fmt.Errorf("%s must be at most %d characters", field, MaxNameLength)
	}
	return s, nil
}

// checkRankings requires a non-empty ranking of distinct nominations
func checkRankings(e models.Election, rankings []string) error {
	if len(rankings) == 0 {
		return errors.New("rankings must not be empty")
	}
	seen := make(map[string]bool, len(rankings))
	for _, id := range rankings {
		if seen[id] {
			return fmt.Errorf("nomination %s ranked more than once", id)
		}
		seen[id] = true
		if _, ok := e.NominationByID(id); !ok {
			return fmt.Errorf("unknown nomination %s", id)
		}
	}
	return nil
}

// writeManagerError maps lifecycle errors to responses
func writeManagerError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, election.ErrElectionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
	case errors.Is(err, election.ErrConcurrentUpdate):
		middleware.ErrorResponse(w, http.StatusConflict, "Election is busy, please retry")
	case errors.Is(err, election.ErrWrongPhase):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("election operation failed", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// memberElection loads the election named in the path and checks the group
// codeword. On failure the response is already written.
func memberElection(w http.ResponseWriter, r *http.Request, mgr *election.Manager) (models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return models.Election{}, false
	}

	e, err := mgr.GetElection(r.Context(), electionID)
	if err != nil {
		writeManagerError(w, err, "load election")
		return models.Election{}, false
	}

	if err := auth.ValidateCodeword(r.Header.Get(auth.CodewordHeader), e.GroupCodeword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid group codeword")
		return models.Election{}, false
	}
	return e, true
}

// toResponse builds the public view of an election. Ballots are only
// revealed once an open-ballot election has completed.
func toResponse(e models.Election, now time.Time) models.ElectionResponse {
	voters := make([]string, 0, len(e.Votes))
	for _, v := range e.Votes {
		voters = append(voters, v.VoterName)
	}

	resp := models.ElectionResponse{
		ID:               e.ID,
		Name:             e.Name,
		AdminName:        e.AdminName,
		State:            e.State,
		Phase:            e.Phase(now),
		BallotVisibility: e.BallotVisibility,
		VoteStartTime:    e.VoteStartTime,
		Participants:     e.Participants,
		Nominations:      e.Nominations,
		Voters:           voters,
		CreatedAt:        e.CreatedAt,
		Winner:           e.Winner,
		WinnerMethod:     e.WinnerMethod,
		TieBroken:        e.TieBroken,
		WinnerVoteTime:   e.WinnerVoteTime,
	}
	if e.State == models.StateCompleted && e.BallotVisibility == models.VisibilityOpen {
		resp.Votes = e.Votes
	}
	return resp
}
