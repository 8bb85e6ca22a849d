// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "time"

// Ballot is one voter's ranking of candidate IDs, most preferred first
type Ballot struct {
	Rankings []string
	CastAt   time.Time
}

// Matrix holds head-to-head counts: m[a][b] is the number of ballots
// preferring a over b.
type Matrix map[string]map[string]int

// Wins returns how many ballots prefer a over b
func (m Matrix) Wins(a, b string) int {
	return m[a][b]
}

// BuildPairwise tallies every ordered pair of distinct candidates.
// A ranked candidate beats an unranked one; two unranked candidates
// contribute to neither cell. IDs outside candidates are ignored.
func BuildPairwise(candidates []string, ballots []Ballot) Matrix {
	m := make(Matrix, len(candidates))
	for _, a := range candidates {
		m[a] = make(map[string]int, len(candidates))
		for _, b := range candidates {
			if a != b {
				m[a][b] = 0
			}
		}
	}

	for _, ballot := range ballots {
		positions := rankPositions(ballot.Rankings)
		for _, a := range candidates {
			rankA, rankedA := positions[a]
			if !rankedA {
				continue
			}
			for _, b := range candidates {
				if a == b {
					continue
				}
				rankB, rankedB := positions[b]
				if !rankedB || rankA < rankB {
					m[a][b]++
				}
			}
		}
	}

	return m
}

// rankPositions maps each ID to its first index in the ranking
func rankPositions(rankings []string) map[string]int {
	positions := make(map[string]int, len(rankings))
	for i, id := range rankings {
		if _, seen := positions[id]; !seen {
			positions[id] = i
		}
	}
	return positions
}
