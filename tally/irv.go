// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "time"

// Round records one elimination round of an instant runoff
type Round struct {
	Counts     map[string]int // first-choice counts among remaining candidates
	Active     int            // ballots still ranking a remaining candidate
	Eliminated string         // empty when the round produced a winner
}

// RunoffResult is the outcome of InstantRunoff. Found is false when there
// were no candidates, no ballots, or a perfect tie nobody ranked first.
type RunoffResult struct {
	Winner         string
	Found          bool
	TieBroken      bool
	WinnerVoteTime time.Time
	Rounds         []Round
}

// InstantRunoff eliminates the weakest candidate round by round until one
// candidate holds a strict majority of active ballots or only one remains.
//
// Ties that counting cannot separate are broken by the earliest first-place
// vote: in a perfect tie the candidate ranked first earliest wins; among
// several (but not all) lowest candidates, the one whose earliest
// first-place vote is most recent is eliminated.
func InstantRunoff(candidates []string, ballots []Ballot) RunoffResult {
	var result RunoffResult
	if len(candidates) == 0 || len(ballots) == 0 {
		return result
	}

	remaining := append([]string(nil), candidates...)
	for len(remaining) > 0 {
		if len(remaining) == 1 {
			result.Winner = remaining[0]
			result.Found = true
			return result
		}

		active := activeBallots(ballots, remaining)
		counts := firstChoiceCounts(active, remaining)
		round := Round{Counts: counts, Active: len(active)}

		// Majority check
		for _, c := range remaining {
			if counts[c]*2 > len(active) {
				result.Rounds = append(result.Rounds, round)
				result.Winner = c
				result.Found = true
				return result
			}
		}

		losers := lowest(counts, remaining)
		earliest := earliestFirstChoice(active)

		// Everyone is tied: fall back to the earliest first-place vote
		if len(losers) == len(remaining) {
			result.Rounds = append(result.Rounds, round)
			winner, at, ok := earliestOf(remaining, earliest)
			if !ok {
				return result
			}
			result.Winner = winner
			result.Found = true
			result.TieBroken = true
			result.WinnerVoteTime = at
			return result
		}

		eliminated := losers[0]
		if len(losers) > 1 {
			eliminated = latestOf(losers, earliest)
		}
		round.Eliminated = eliminated
		result.Rounds = append(result.Rounds, round)
		remaining = without(remaining, eliminated)
	}

	return result
}

// activeBallots filters rankings down to remaining candidates and drops
// ballots left empty
func activeBallots(ballots []Ballot, remaining []string) []Ballot {
	keep := make(map[string]bool, len(remaining))
	for _, c := range remaining {
		keep[c] = true
	}

	active := make([]Ballot, 0, len(ballots))
	for _, b := range ballots {
		var rankings []string
		for _, id := range b.Rankings {
			if keep[id] {
				rankings = append(rankings, id)
			}
		}
		if len(rankings) > 0 {
			active = append(active, Ballot{Rankings: rankings, CastAt: b.CastAt})
		}
	}
	return active
}

func firstChoiceCounts(active []Ballot, remaining []string) map[string]int {
	counts := make(map[string]int, len(remaining))
	for _, c := range remaining {
		counts[c] = 0
	}
	for _, b := range active {
		counts[b.Rankings[0]]++
	}
	return counts
}

// lowest returns the candidates tied at the minimum count, in candidate order
func lowest(counts map[string]int, remaining []string) []string {
	minCount := -1
	for _, c := range remaining {
		if minCount < 0 || counts[c] < minCount {
			minCount = counts[c]
		}
	}

	var losers []string
	for _, c := range remaining {
		if counts[c] == minCount {
			losers = append(losers, c)
		}
	}
	return losers
}

// earliestFirstChoice maps each candidate to the earliest time an active
// ballot ranked it first. Candidates never ranked first are absent.
func earliestFirstChoice(active []Ballot) map[string]time.Time {
	earliest := make(map[string]time.Time)
	for _, b := range active {
		first := b.Rankings[0]
		if at, ok := earliest[first]; !ok || b.CastAt.Before(at) {
			earliest[first] = b.CastAt
		}
	}
	return earliest
}

// earliestOf picks the candidate with the earliest first-place vote.
// Returns false if none of them was ever ranked first.
func earliestOf(candidates []string, earliest map[string]time.Time) (string, time.Time, bool) {
	var winner string
	var winnerAt time.Time
	found := false
	for _, c := range candidates {
		at, ok := earliest[c]
		if !ok {
			continue
		}
		if !found || at.Before(winnerAt) {
			winner, winnerAt, found = c, at, true
		}
	}
	return winner, winnerAt, found
}

// latestOf picks the candidate whose earliest first-place vote is most
// recent. Never being ranked first counts as latest of all.
func latestOf(candidates []string, earliest map[string]time.Time) string {
	pick := candidates[0]
	pickAt, pickRanked := earliest[pick]
	for _, c := range candidates[1:] {
		at, ranked := earliest[c]
		switch {
		case !pickRanked:
			// already at infinity
		case !ranked:
			pick, pickAt, pickRanked = c, at, false
		case at.After(pickAt):
			pick, pickAt = c, at
		}
	}
	return pick
}

func without(candidates []string, drop string) []string {
	out := make([]string, 0, len(candidates)-1)
	for _, c := range candidates {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}
