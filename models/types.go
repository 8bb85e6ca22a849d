// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"
)

// Election state constants
const (
	StateNomination = "nomination"
	StateVoting     = "voting"
	StateCompleted  = "completed"
	StateCancelled  = "cancelled"
)

// Ballot visibility constants
const (
	VisibilitySecret = "secret"
	VisibilityOpen   = "open"
)

// Winner method constants
const (
	MethodCondorcet     = "Condorcet"
	MethodInstantRunoff = "Instant Runoff"
)

// Domain types

// Election is the aggregate root. It is persisted as a single blob keyed by ID.
type Election struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	AdminName          string       `json:"admin_name"`
	GroupCodeword      string       `json:"group_codeword"`
	VoteStartTime      *time.Time   `json:"vote_start_time,omitempty"`
	State              string       `json:"state"`
	BallotVisibility   string       `json:"ballot_visibility,omitempty"`
	RetainIndefinitely bool         `json:"retain_indefinitely,omitempty"`
	Participants       []string     `json:"participants"`
	Nominations        []Nomination `json:"nominations"`
	Votes              []Vote       `json:"votes"`
	CreatedAt          time.Time    `json:"created_at"`

	// Set by finalize, cleared by cancel
	Winner         *string    `json:"winner,omitempty"`
	WinnerMethod   string     `json:"winner_method,omitempty"`
	TieBroken      bool       `json:"tie_broken"`
	WinnerVoteTime *time.Time `json:"winner_vote_time,omitempty"`

	// Incremented by every successful save
	Version int64 `json:"version"`
}

type Nomination struct {
	ID             string         `json:"id"`
	NominatorName  string         `json:"nominator_name"`
	RestaurantName string         `json:"restaurant_name"`
	IsWriteIn      bool           `json:"is_write_in"`
	CreatedAt      time.Time      `json:"created_at"`
	Metadata       *PlaceMetadata `json:"metadata,omitempty"`
}

// PlaceMetadata is display data only; tallying never looks at it.
type PlaceMetadata struct {
	Address    string  `json:"address,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	PriceLevel int     `json:"price_level,omitempty"`
	PhotoURL   string  `json:"photo_url,omitempty"`
}

type Vote struct {
	VoterName string    `json:"voter_name"`
	Rankings  []string  `json:"rankings"` // nomination IDs, most preferred first
	CreatedAt time.Time `json:"created_at"`
}

// NewElection holds the admin-supplied fields for creating an election
type NewElection struct {
	Name               string
	AdminName          string
	GroupCodeword      string
	VoteStartTime      *time.Time
	BallotVisibility   string
	RetainIndefinitely bool
}

// IsTerminal reports whether no further transitions are possible
func (e Election) IsTerminal() bool {
	return e.State == StateCompleted || e.State == StateCancelled
}

// Phase derives the user-facing phase. Voting is not stored as a state;
// it begins once VoteStartTime has passed.
func (e Election) Phase(now time.Time) string {
	if e.IsTerminal() {
		return e.State
	}
	if e.VoteStartTime != nil && !e.VoteStartTime.After(now) {
		return StateVoting
	}
	return StateNomination
}

// HasParticipant compares names case-insensitively
func (e Election) HasParticipant(name string) bool {
	for _, p := range e.Participants {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// NominationByID returns the nomination with the given ID, if any
func (e Election) NominationByID(id string) (Nomination, bool) {
	for _, n := range e.Nominations {
		if n.ID == id {
			return n, true
		}
	}
	return Nomination{}, false
}

// ClearResult resets all fields set by finalize
func (e *Election) ClearResult() {
	e.Winner = nil
	e.WinnerMethod = ""
	e.TieBroken = false
	e.WinnerVoteTime = nil
}

// Request types

type CreateElectionRequest struct {
	Name               string     `json:"name"`
	AdminName          string     `json:"admin_name"`
	GroupCodeword      string     `json:"group_codeword"`
	VoteStartTime      *time.Time `json:"vote_start_time,omitempty"`
	BallotVisibility   string     `json:"ballot_visibility,omitempty"`
	RetainIndefinitely bool       `json:"retain_indefinitely,omitempty"`
}

type JoinElectionRequest struct {
	Name string `json:"name"`
}

type AddNominationRequest struct {
	NominatorName  string         `json:"nominator_name"`
	RestaurantName string         `json:"restaurant_name"`
	IsWriteIn      bool           `json:"is_write_in"`
	Metadata       *PlaceMetadata `json:"metadata,omitempty"`
}

type SubmitVoteRequest struct {
	VoterName string   `json:"voter_name"`
	Rankings  []string `json:"rankings"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

// ElectionResponse is the public view of an election. The codeword is never
// included and ballots are only shown once an open-ballot election completes.
type ElectionResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	AdminName        string       `json:"admin_name"`
	State            string       `json:"state"`
	Phase            string       `json:"phase"`
	BallotVisibility string       `json:"ballot_visibility"`
	VoteStartTime    *time.Time   `json:"vote_start_time,omitempty"`
	Participants     []string     `json:"participants"`
	Nominations      []Nomination `json:"nominations"`
	Voters           []string     `json:"voters"`
	Votes            []Vote       `json:"votes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	Winner           *string      `json:"winner,omitempty"`
	WinnerMethod     string       `json:"winner_method,omitempty"`
	TieBroken        bool         `json:"tie_broken"`
	WinnerVoteTime   *time.Time   `json:"winner_vote_time,omitempty"`
}

type ElectionSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminName string    `json:"admin_name"`
	State     string    `json:"state"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

type ListElectionsResponse struct {
	Elections []ElectionSummary `json:"elections"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
