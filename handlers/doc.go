// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Dinner Pick API.

# Handler Types

Each handler is a struct holding the election manager. ElectionHandler
also keeps the config for the admin key salt.

  - ElectionHandler: Create, list and the admin lifecycle (start, finalize, cancel, delete)
  - VotingHandler: Joining, nominating and voting
  - ResultsHandler: Election state and result

	electionHandler := handlers.NewElectionHandler(mgr, cfg)

# Election Lifecycle

An election moves nomination → voting → completed, or to cancelled at any
point. The voting phase begins at vote_start_time, set at creation or by
StartVoting.

	POST /elections                 → CreateElection (returns admin_key)
	POST /elections/{id}/start      → StartVoting
	POST /elections/{id}/finalize   → FinalizeElection (computes the winner)
	POST /elections/{id}/cancel     → CancelElection

Admin operations require the X-Admin-Key header.

# Member Flow

Group members prove membership with the shared codeword in the
X-Group-Codeword header:

	POST /elections/{id}/participants → JoinElection
	POST /elections/{id}/nominations  → AddNomination (nomination phase only)
	POST /elections/{id}/votes        → SubmitVote (voting phase only)

Rankings must list distinct nominations of the election. Resubmitting under
the same voter name replaces the earlier ranking. The phase is checked
again inside the manager's save (election.RequirePhase), so a vote that
races a finalize gets 409 instead of landing on a completed election.

# Errors

Manager errors map to status codes in writeManagerError: unknown elections
are 404 and lost update races are 409.
*/
package handlers
