// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/dinner-pick/models"
	"github.com/danielhkuo/dinner-pick/store"
)

const (
	DefaultRetention = 2 * time.Hour

	// maxSaveAttempts bounds the read-modify-write loop under contention
	maxSaveAttempts = 3
)

var (
	ErrElectionNotFound = errors.New("election not found")
	ErrConcurrentUpdate = errors.New("election was modified concurrently, try again")
	ErrWrongPhase       = errors.New("election is not in the required phase")
)

// Guard is checked against the freshly loaded election inside every save
// attempt, so a concurrent transition cannot slip in between the check and
// the write.
type Guard func(e models.Election, now time.Time) error

// RequirePhase rejects the operation unless the election is in phase
func RequirePhase(phase string) Guard {
	return func(e models.Election, now time.Time) error {
		if got := e.Phase(now); got != phase {
			return fmt.Errorf("%w: election is in %s", ErrWrongPhase, got)
		}
		return nil
	}
}

func checkGuards(e models.Election, now time.Time, guards []Guard) error {
	for _, g := range guards {
		if err := g(e, now); err != nil {
			return err
		}
	}
	return nil
}

// errUnchanged lets a mutation report that nothing needs saving
var errUnchanged = errors.New("election unchanged")

type Config struct {
	// Retention is how long an election lives after creation. Zero means
	// DefaultRetention.
	Retention time.Duration
	Logger    *slog.Logger
	// Now overrides the clock in tests
	Now func() time.Time
}

// Manager runs every election operation as load, mutate, conditional save.
// It keeps no state between calls, so any number of processes can share
// one Repository.
type Manager struct {
	repo      store.Repository
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time

	computeWinner winnerFunc
}

func NewManager(repo store.Repository, cfg Config) *Manager {
	m := &Manager{
		repo:      repo,
		retention: cfg.Retention,
		logger:    cfg.Logger,
		now:       cfg.Now,

		computeWinner: computeWinner,
	}
	if m.retention <= 0 {
		m.retention = DefaultRetention
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *Manager) clock() time.Time {
	return m.now().UTC()
}

// CreateElection stores a new election in the nomination state. The admin
// is the first participant.
func (m *Manager) CreateElection(ctx context.Context, in models.NewElection) (models.Election, error) {
	now := m.clock()

	e := models.Election{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		AdminName:          in.AdminName,
		GroupCodeword:      in.GroupCodeword,
		VoteStartTime:      in.VoteStartTime,
		State:              models.StateNomination,
		BallotVisibility:   in.BallotVisibility,
		RetainIndefinitely: in.RetainIndefinitely,
		Participants:       []string{},
		Nominations:        []models.Nomination{},
		Votes:              []models.Vote{},
		CreatedAt:          now,
	}
	if in.AdminName != "" {
		e.Participants = append(e.Participants, in.AdminName)
	}
	normalize(&e)

	if err := m.repo.SaveElection(ctx, &e); err != nil {
		return models.Election{}, fmt.Errorf("failed to create election: %w", err)
	}

	m.logger.Info("election created",
		"election_id", e.ID,
		"name", e.Name,
		"admin", e.AdminName,
	)
	return e, nil
}

// GetElection returns ErrElectionNotFound for unknown, expired, or
// unreadable elections.
func (m *Manager) GetElection(ctx context.Context, id string) (models.Election, error) {
	return m.load(ctx, id)
}

// ListElections returns every live election, oldest first. Expired ones
// are deleted along the way. A storage failure yields an empty list.
func (m *Manager) ListElections(ctx context.Context) ([]models.Election, error) {
	all, err := m.repo.ListElections(ctx)
	if err != nil {
		return []models.Election{}, nil
	}

	now := m.clock()
	live := make([]models.Election, 0, len(all))
	for _, e := range all {
		normalize(&e)
		if m.expired(e, now) {
			m.purge(ctx, e, now)
			continue
		}
		live = append(live, e)
	}
	return live, nil
}

func (m *Manager) AddParticipant(ctx context.Context, id, name string) (models.Election, error) {
	return m.mutate(ctx, id, func(e *models.Election) error {
		if e.HasParticipant(name) {
			return errUnchanged
		}
		e.Participants = append(e.Participants, name)
		return nil
	})
}

// AddNomination stores n and returns it with its ID and CreatedAt filled
// in. A regular nomination replaces the nominator's previous regular
// nomination in place; write-ins always append.
func (m *Manager) AddNomination(ctx context.Context, id string, n models.Nomination, guards ...Guard) (models.Nomination, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.clock()
	}

	_, err := m.mutate(ctx, id, func(e *models.Election) error {
		if err := checkGuards(*e, m.clock(), guards); err != nil {
			return err
		}
		if !n.IsWriteIn {
			for i, existing := range e.Nominations {
				if !existing.IsWriteIn && strings.EqualFold(existing.NominatorName, n.NominatorName) {
					e.Nominations[i] = n
					return nil
				}
			}
		}
		e.Nominations = append(e.Nominations, n)
		return nil
	})
	if err != nil {
		return models.Nomination{}, err
	}
	return n, nil
}

// RemoveNomination succeeds whether or not the nomination exists
func (m *Manager) RemoveNomination(ctx context.Context, id, nominationID string) (models.Election, error) {
	return m.mutate(ctx, id, func(e *models.Election) error {
		kept := e.Nominations[:0]
		for _, n := range e.Nominations {
			if n.ID != nominationID {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(e.Nominations) {
			return errUnchanged
		}
		e.Nominations = kept
		return nil
	})
}

// AddVote records v, replacing any earlier vote with the same voter name.
// CreatedAt is always set here; it drives the runoff tie-break.
func (m *Manager) AddVote(ctx context.Context, id string, v models.Vote, guards ...Guard) (models.Election, error) {
	v.CreatedAt = m.clock()

	return m.mutate(ctx, id, func(e *models.Election) error {
		if err := checkGuards(*e, m.clock(), guards); err != nil {
			return err
		}
		for i, existing := range e.Votes {
			if existing.VoterName == v.VoterName {
				e.Votes[i] = v
				return nil
			}
		}
		e.Votes = append(e.Votes, v)
		return nil
	})
}

// StartVoting opens voting now. The stored state stays as is; Phase
// derives "voting" from VoteStartTime.
func (m *Manager) StartVoting(ctx context.Context, id string) (models.Election, error) {
	now := m.clock()

	return m.mutate(ctx, id, func(e *models.Election) error {
		if e.IsTerminal() {
			return errUnchanged
		}
		e.VoteStartTime = &now
		return nil
	})
}

// FinalizeElection completes the election and computes its winner.
// Cancelled elections are returned unchanged. A failed winner computation
// still completes the election, just without a winner.
func (m *Manager) FinalizeElection(ctx context.Context, id string) (models.Election, error) {
	e, err := m.mutate(ctx, id, func(e *models.Election) error {
		if e.State == models.StateCancelled {
			return errUnchanged
		}
		e.State = models.StateCompleted
		e.ClearResult()
		m.resolveWinner(e)
		return nil
	})
	if err != nil || e.State != models.StateCompleted {
		return e, err
	}

	method := e.WinnerMethod
	if method == "" {
		method = "none"
	}
	finalizedTotal.WithLabelValues(method).Inc()

	m.logger.Info("election finalized",
		"election_id", e.ID,
		"method", method,
		"tie_broken", e.TieBroken,
		"votes", len(e.Votes),
	)
	return e, nil
}

// CancelElection cancels and clears any result. Already cancelled
// elections are returned unchanged.
func (m *Manager) CancelElection(ctx context.Context, id string) (models.Election, error) {
	e, err := m.mutate(ctx, id, func(e *models.Election) error {
		if e.State == models.StateCancelled {
			return errUnchanged
		}
		e.State = models.StateCancelled
		e.ClearResult()
		return nil
	})
	if err == nil {
		m.logger.Info("election cancelled", "election_id", e.ID)
	}
	return e, err
}

func (m *Manager) DeleteElection(ctx context.Context, id string) error {
	if err := m.repo.DeleteElection(ctx, id); err != nil {
		return fmt.Errorf("failed to delete election %s: %w", id, err)
	}
	m.logger.Info("election deleted", "election_id", id)
	return nil
}

// load reads, normalizes and applies retention
func (m *Manager) load(ctx context.Context, id string) (models.Election, error) {
	// Backends log their own failures
	e, err := m.repo.GetElection(ctx, id)
	if err != nil {
		return models.Election{}, ErrElectionNotFound
	}

	normalize(&e)

	now := m.clock()
	if m.expired(e, now) {
		m.purge(ctx, e, now)
		return models.Election{}, ErrElectionNotFound
	}
	return e, nil
}

// mutate applies fn to a fresh copy of the election and saves it,
// reloading and reapplying fn when another writer got there first.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*models.Election) error) (models.Election, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		e, err := m.load(ctx, id)
		if err != nil {
			return models.Election{}, err
		}

		if err := fn(&e); err != nil {
			if errors.Is(err, errUnchanged) {
				return e, nil
			}
			return models.Election{}, err
		}

		err = m.repo.SaveElection(ctx, &e)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return models.Election{}, fmt.Errorf("failed to save election %s: %w", id, err)
		}

		conflictsTotal.Inc()
		m.logger.Debug("election save conflict", "election_id", id, "attempt", attempt)
	}

	m.logger.Warn("giving up on contended election", "election_id", id, "attempts", maxSaveAttempts)
	return models.Election{}, ErrConcurrentUpdate
}

func (m *Manager) expired(e models.Election, now time.Time) bool {
	return !e.RetainIndefinitely && now.Sub(e.CreatedAt) > m.retention
}

func (m *Manager) purge(ctx context.Context, e models.Election, now time.Time) {
	if err := m.repo.DeleteElection(ctx, e.ID); err != nil {
		m.logger.Error("failed to delete expired election", "election_id", e.ID, "error", err)
		return
	}
	expiredTotal.Inc()
	m.logger.Info("expired election deleted",
		"election_id", e.ID,
		"name", e.Name,
		"created", humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
	)
}

// normalize fills defaults for records written before a field existed
func normalize(e *models.Election) {
	if e.BallotVisibility != models.VisibilityOpen {
		e.BallotVisibility = models.VisibilitySecret
	}
	if e.State == "" {
		e.State = models.StateNomination
	}
	if e.Participants == nil {
		e.Participants = []string{}
	}
	if e.Nominations == nil {
		e.Nominations = []models.Nomination{}
	}
	if e.Votes == nil {
		e.Votes = []models.Vote{}
	}
}
