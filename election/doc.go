// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election lifecycle on top of a
store.Repository.

# Lifecycle

	nomination ──start──▶ voting ──finalize──▶ completed
	     │                  │
	     └──────cancel──────┴──────────────▶ cancelled

Voting is not a stored state. StartVoting sets VoteStartTime and
models.Election.Phase reports "voting" once that time has passed.
Finalize on a cancelled election and cancel on a cancelled election are
no-ops. Cancelling a completed election clears its result.

# Operations

Every mutation loads the election, applies the change in memory and saves
it with a conditional write. If another writer saved first the whole
cycle is repeated, up to three attempts, before ErrConcurrentUpdate is
returned:

	mgr := election.NewManager(repo, election.Config{Retention: cfg.RetentionWindow})
	e, err := mgr.AddVote(ctx, id, models.Vote{VoterName: "Sam", Rankings: ids})

AddVote and AddNomination take optional guards that are checked against
the freshly loaded election on every attempt. The HTTP layer passes
RequirePhase so a vote racing a finalize is rejected instead of landing
on a completed election:

	_, err := mgr.AddVote(ctx, id, v, election.RequirePhase(models.StateVoting))

# Winners

FinalizeElection builds the pairwise matrix and takes the Condorcet winner
when one exists, falling back to instant runoff with the earliest
first-place vote as tie-break (see package tally). A failure while
computing the winner is logged and the election is still completed,
without a winner.

# Retention

Elections older than the retention window (2h by default) are deleted the
next time they are read and then look exactly like unknown IDs. Elections
created with RetainIndefinitely are never expired.

# Errors

  - ErrElectionNotFound: unknown, expired, or unreadable election
  - ErrWrongPhase: a RequirePhase guard failed
  - ErrConcurrentUpdate: conditional write kept losing to other writers

Write failures from the store are returned wrapped.

# Metrics

Counters registered with the default Prometheus registry:

  - dinnerpick_elections_finalized_total{method}
  - dinnerpick_winner_failures_total
  - dinnerpick_elections_expired_total
  - dinnerpick_store_conflicts_total
*/
package election
