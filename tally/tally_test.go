// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

// ballots builds ballots cast one minute apart, in order
func ballots(rankings ...[]string) []Ballot {
	out := make([]Ballot, len(rankings))
	for i, r := range rankings {
		out[i] = Ballot{Rankings: r, CastAt: base.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func TestBuildPairwise(t *testing.T) {
	candidates := []string{"A", "B", "C"}
	m := BuildPairwise(candidates, ballots(
		[]string{"A", "B"},
		[]string{"B"},
		[]string{},
		[]string{"X", "C"}, // unknown ID is ignored
	))

	tests := []struct {
		a, b     string
		expected int
	}{
		{"A", "B", 1},
		{"A", "C", 1},
		{"B", "A", 1},
		{"B", "C", 2},
		{"C", "A", 1},
		{"C", "B", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+">"+tt.b, func(t *testing.T) {
			if got := m.Wins(tt.a, tt.b); got != tt.expected {
				t.Errorf("Wins(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}

	if _, ok := m["A"]["A"]; ok {
		t.Error("Matrix should not contain a diagonal cell")
	}
}

func TestBuildPairwise_DuplicateRankingUsesFirstPosition(t *testing.T) {
	m := BuildPairwise([]string{"A", "B"}, ballots([]string{"A", "B", "A"}))

	if m.Wins("A", "B") != 1 || m.Wins("B", "A") != 0 {
		t.Errorf("Expected A>B once, got A>B=%d B>A=%d", m.Wins("A", "B"), m.Wins("B", "A"))
	}
}

func TestCondorcetWinner(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		ballots    []Ballot
		winner     string
		found      bool
	}{
		{
			name:       "clear winner",
			candidates: []string{"A", "B", "C"},
			ballots: ballots(
				[]string{"B", "A", "C"},
				[]string{"A", "C", "B"},
				[]string{"C", "A", "B"},
			),
			winner: "A",
			found:  true,
		},
		{
			name:       "winner without a first-place majority",
			candidates: []string{"A", "B", "C"},
			ballots: ballots(
				[]string{"A", "B", "C"},
				[]string{"A", "B", "C"},
				[]string{"C", "B", "A"},
				[]string{"C", "B", "A"},
				[]string{"B", "A", "C"},
			),
			winner: "B",
			found:  true,
		},
		{
			name:       "cycle",
			candidates: []string{"A", "B", "C"},
			ballots: ballots(
				[]string{"A", "B", "C"},
				[]string{"B", "C", "A"},
				[]string{"C", "A", "B"},
			),
			found: false,
		},
		{
			name:       "head-to-head tie",
			candidates: []string{"A", "B"},
			ballots:    ballots([]string{"A", "B"}, []string{"B", "A"}),
			found:      false,
		},
		{
			name:       "no ballots",
			candidates: []string{"A", "B"},
			found:      false,
		},
		{
			name:       "no candidates",
			candidates: nil,
			ballots:    ballots([]string{"A"}),
			found:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildPairwise(tt.candidates, tt.ballots)
			winner, found := CondorcetWinner(tt.candidates, m)
			if found != tt.found {
				t.Fatalf("CondorcetWinner() found = %v, want %v", found, tt.found)
			}
			if winner != tt.winner {
				t.Errorf("CondorcetWinner() = %q, want %q", winner, tt.winner)
			}
		})
	}
}

func TestInstantRunoff_Majority(t *testing.T) {
	result := InstantRunoff([]string{"A", "B"}, ballots(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"B", "A"},
	))

	if !result.Found || result.Winner != "A" {
		t.Fatalf("Expected A to win, got %+v", result)
	}
	if result.TieBroken {
		t.Error("Majority win should not be tie-broken")
	}
	if len(result.Rounds) != 1 {
		t.Errorf("Expected 1 round, got %d", len(result.Rounds))
	}
}

func TestInstantRunoff_EliminationTransfersVotes(t *testing.T) {
	// C is last on first choices; its ballot moves to B, giving B 4 of 7
	result := InstantRunoff([]string{"A", "B", "C"}, ballots(
		[]string{"A"},
		[]string{"A"},
		[]string{"A"},
		[]string{"B", "A"},
		[]string{"B"},
		[]string{"B"},
		[]string{"C", "B"},
	))

	if !result.Found || result.Winner != "B" {
		t.Fatalf("Expected B to win after transfer, got %+v", result)
	}
	if result.TieBroken {
		t.Error("Runoff majority should not be tie-broken")
	}
	if len(result.Rounds) != 2 {
		t.Fatalf("Expected 2 rounds, got %d", len(result.Rounds))
	}
	if result.Rounds[0].Eliminated != "C" {
		t.Errorf("Expected C eliminated in round 1, got %q", result.Rounds[0].Eliminated)
	}
	if result.Rounds[1].Counts["B"] != 4 {
		t.Errorf("Expected B to hold 4 ballots in round 2, got %d", result.Rounds[1].Counts["B"])
	}
}

func TestInstantRunoff_PerfectTieEarliestVoteWins(t *testing.T) {
	early := base
	late := base.Add(5 * time.Minute)

	result := InstantRunoff([]string{"A", "B"}, []Ballot{
		{Rankings: []string{"A"}, CastAt: late},
		{Rankings: []string{"B"}, CastAt: early},
	})

	if !result.Found || result.Winner != "B" {
		t.Fatalf("Expected B (earlier first-place vote) to win, got %+v", result)
	}
	if !result.TieBroken {
		t.Error("Expected TieBroken = true")
	}
	if !result.WinnerVoteTime.Equal(early) {
		t.Errorf("WinnerVoteTime = %v, want %v", result.WinnerVoteTime, early)
	}
}

func TestInstantRunoff_PartialTieEliminatesMostRecentSupport(t *testing.T) {
	// B and C tie at one vote each; C's first-place vote is more recent.
	// After C's ballot moves to B, A and B tie and B's vote is earliest.
	result := InstantRunoff([]string{"A", "B", "C"}, []Ballot{
		{Rankings: []string{"A"}, CastAt: base.Add(1 * time.Minute)},
		{Rankings: []string{"A"}, CastAt: base.Add(2 * time.Minute)},
		{Rankings: []string{"B"}, CastAt: base},
		{Rankings: []string{"C", "B"}, CastAt: base.Add(10 * time.Minute)},
	})

	if len(result.Rounds) == 0 || result.Rounds[0].Eliminated != "C" {
		t.Fatalf("Expected C eliminated first, got rounds %+v", result.Rounds)
	}
	if result.Winner != "B" || !result.TieBroken {
		t.Errorf("Expected B to win by tie-break, got %+v", result)
	}
	if !result.WinnerVoteTime.Equal(base) {
		t.Errorf("WinnerVoteTime = %v, want %v", result.WinnerVoteTime, base)
	}
}

func TestInstantRunoff_NeverFirstEliminatedFirst(t *testing.T) {
	// C and D are never ranked first, so they go before A and B tie off
	result := InstantRunoff([]string{"A", "B", "C", "D"}, ballots(
		[]string{"A", "C"},
		[]string{"B", "D"},
		[]string{"A"},
		[]string{"B"},
	))

	if len(result.Rounds) != 3 {
		t.Fatalf("Expected 3 rounds, got %+v", result.Rounds)
	}
	if result.Rounds[0].Eliminated != "C" || result.Rounds[1].Eliminated != "D" {
		t.Errorf("Expected C then D eliminated, got %q then %q",
			result.Rounds[0].Eliminated, result.Rounds[1].Eliminated)
	}
	if !result.Found || result.Winner != "A" || !result.TieBroken {
		t.Errorf("Expected A to win by tie-break, got %+v", result)
	}
}

func TestInstantRunoff_NoWinner(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		ballots    []Ballot
	}{
		{"no candidates", nil, ballots([]string{"A"})},
		{"no ballots", []string{"A", "B"}, nil},
		{"only unknown rankings", []string{"A", "B"}, ballots([]string{"X"}, []string{"Y"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InstantRunoff(tt.candidates, tt.ballots)
			if result.Found {
				t.Errorf("Expected no winner, got %q", result.Winner)
			}
		})
	}
}

func TestInstantRunoff_SingleCandidate(t *testing.T) {
	result := InstantRunoff([]string{"A"}, ballots([]string{"B"}))

	if !result.Found || result.Winner != "A" {
		t.Errorf("Expected lone candidate to win, got %+v", result)
	}
}

func TestLatestOf(t *testing.T) {
	earliest := map[string]time.Time{
		"A": base,
		"B": base.Add(time.Hour),
	}

	tests := []struct {
		name       string
		candidates []string
		expected   string
	}{
		{"later first vote", []string{"A", "B"}, "B"},
		{"never ranked first beats ranked", []string{"A", "Z", "B"}, "Z"},
		{"both never ranked keeps first", []string{"Y", "Z"}, "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := latestOf(tt.candidates, earliest); got != tt.expected {
				t.Errorf("latestOf(%v) = %s, want %s", tt.candidates, got, tt.expected)
			}
		})
	}
}
