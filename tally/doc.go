// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally resolves ranked ballots into a single winner.

# Pairwise Matrix

BuildPairwise counts, for every ordered pair of candidates, how many
ballots prefer one over the other:

	m := tally.BuildPairwise(candidateIDs, ballots)
	m.Wins("a", "b") // ballots ranking a above b

A ranked candidate beats any unranked one. Two unranked candidates
contribute nothing.

# Condorcet

CondorcetWinner returns the candidate that beats every other one
head-to-head, or false on cyclic or tied preferences:

	if winner, ok := tally.CondorcetWinner(candidateIDs, m); ok {
		...
	}

# Instant Runoff

InstantRunoff is the fallback. Each round tallies first choices among
remaining candidates; a strict majority wins, otherwise the lowest
candidate is eliminated and its ballots transfer.

Ties are broken by time, never at random:

  - all remaining candidates tied: the one ranked first earliest wins
    (TieBroken is set, WinnerVoteTime records that vote)
  - several lowest candidates tied: the one whose earliest first-place
    vote is most recent is eliminated

Nothing here touches storage; callers pass plain IDs and ballots.
*/
package tally
