// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"log/slog"
	"time"

	"github.com/danielhkuo/dinner-pick/models"
	"github.com/danielhkuo/dinner-pick/tally"
)

// winnerFunc fills in the result fields of e
type winnerFunc func(logger *slog.Logger, e *models.Election)

// resolveWinner runs m.computeWinner on e. It never panics; a failure
// leaves e without a winner.
func (m *Manager) resolveWinner(e *models.Election) {
	start := time.Now()
	defer func() {
		finalizeDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			winnerFailures.Inc()
			e.ClearResult()
			m.logger.Error("winner computation failed",
				"election_id", e.ID,
				"panic", r,
			)
		}
	}()

	m.computeWinner(m.logger, e)
}

// computeWinner picks the Condorcet winner if there is one, otherwise the
// instant-runoff winner.
func computeWinner(logger *slog.Logger, e *models.Election) {
	candidates, ballots := ballotsFor(*e)

	if w, ok := tally.CondorcetWinner(candidates, tally.BuildPairwise(candidates, ballots)); ok {
		e.Winner = &w
		e.WinnerMethod = models.MethodCondorcet
		return
	}

	result := tally.InstantRunoff(candidates, ballots)
	for i, round := range result.Rounds {
		logger.Debug("runoff round",
			"election_id", e.ID,
			"round", i+1,
			"active", round.Active,
			"counts", round.Counts,
			"eliminated", round.Eliminated,
		)
	}
	if !result.Found {
		logger.Info("no winner", "election_id", e.ID, "candidates", len(candidates), "votes", len(ballots))
		return
	}

	e.Winner = &result.Winner
	e.WinnerMethod = models.MethodInstantRunoff
	e.TieBroken = result.TieBroken
	if result.TieBroken {
		t := result.WinnerVoteTime
		e.WinnerVoteTime = &t
	}
}

func ballotsFor(e models.Election) ([]string, []tally.Ballot) {
	candidates := make([]string, 0, len(e.Nominations))
	for _, n := range e.Nominations {
		candidates = append(candidates, n.ID)
	}

	ballots := make([]tally.Ballot, 0, len(e.Votes))
	for _, v := range e.Votes {
		ballots = append(ballots, tally.Ballot{Rankings: v.Rankings, CastAt: v.CreatedAt})
	}
	return candidates, ballots
}
