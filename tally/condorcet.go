// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

// CondorcetWinner returns the candidate that strictly beats every other
// candidate head-to-head. Returns false when preferences are cyclic or tied.
func CondorcetWinner(candidates []string, m Matrix) (string, bool) {
	for _, c := range candidates {
		if beatsAll(c, candidates, m) {
			return c, true
		}
	}
	return "", false
}

func beatsAll(c string, candidates []string, m Matrix) bool {
	for _, other := range candidates {
		if other == c {
			continue
		}
		if m.Wins(c, other) <= m.Wins(other, c) {
			return false
		}
	}
	return true
}
