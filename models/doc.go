// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the election aggregate and the API request and
response types.

# Domain Types

  - Election: aggregate root persisted as one blob (participants,
    nominations, votes, and result fields)
  - Nomination: a candidate restaurant, regular or write-in
  - PlaceMetadata: display-only details of a nominated place
  - Vote: a ranked ballot of nomination IDs, most preferred first

# Lifecycle

Stored states:

	StateNomination = "nomination"
	StateCompleted  = "completed"
	StateCancelled  = "cancelled"

StateVoting is never stored. Election.Phase derives it from VoteStartTime:

	phase := e.Phase(time.Now())

# Request Types

  - CreateElectionRequest: name, admin_name, group_codeword, vote_start_time
  - JoinElectionRequest: name
  - AddNominationRequest: nominator_name, restaurant_name, is_write_in
  - SubmitVoteRequest: voter_name, rankings

# Response Types

  - CreateElectionResponse: election_id, admin_key
  - ElectionResponse: public election view (no codeword)
  - ListElectionsResponse: election summaries
  - ErrorResponse: error, message
*/
package models
