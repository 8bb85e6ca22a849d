// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// finalizedTotal counts completed finalizations by winning method
	// ("none" when nobody won)
	finalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dinnerpick_elections_finalized_total",
		Help: "Elections finalized, by winner method",
	}, []string{"method"})

	// finalizeDuration tracks winner computation time
	finalizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dinnerpick_winner_computation_seconds",
		Help:    "Time spent computing an election winner",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
	})

	winnerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dinnerpick_winner_failures_total",
		Help: "Winner computations that failed and left the election without a winner",
	})

	expiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dinnerpick_elections_expired_total",
		Help: "Elections deleted on read after the retention window passed",
	})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dinnerpick_store_conflicts_total",
		Help: "Conditional election writes rejected because of a concurrent update",
	})
)
