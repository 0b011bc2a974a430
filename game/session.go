// Package game drives one play session: building the bracket, applying
// decisions, undo and restart. Decisions are mirrored into the vote
// accumulator so the delivery layer can ship them.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/worldcup/brackets"
	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/votes"
)

var (
	ErrDecisionInFlight    = errors.New("a decision is already being applied")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrTournamentCompleted = errors.New("tournament is already completed")
)

type Config struct {
	WorldcupID string
	Title      string
	Items      []*models.Item
	// Size is the bracket size; zero picks the smallest bracket that fits Items.
	Size int
	// PacingDelay is waited before a decision is applied.
	PacingDelay time.Duration
	// Strict panics on bracket invariant violations instead of returning them.
	Strict bool
	// Shuffle seeds every bracket from a fresh random order of Items.
	// Rand is used when set, the global source otherwise.
	Shuffle bool
	Rand    *rand.Rand
}

// Decision is what the caller needs after a successful Decide.
type Decision struct {
	Vote      models.VoteRecord
	Next      *models.Match
	Completed bool
	Winner    *models.Item
}

type Session struct {
	cfg     Config
	builder brackets.BracketBuilder
	acc     *votes.Accumulator
	logger  *slog.Logger
	latch   Latch

	mu         sync.Mutex
	id         string
	tournament *models.Tournament
}

func NewSession(ctx context.Context, cfg Config, acc *votes.Accumulator, logger *slog.Logger) (*Session, error) {
	if acc == nil {
		acc = votes.NewAccumulator(votes.DefaultCapacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		cfg:     cfg,
		builder: brackets.NewSingleEliminationBuilder(),
		acc:     acc,
		logger:  logger.With(slog.String("worldcup_id", cfg.WorldcupID)),
	}
	if err := s.rebuild(ctx, cfg.Size); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultSize is the smallest supported bracket holding n items.
func DefaultSize(n int) int {
	size := 2
	for size < n && size < brackets.MaxBracketSize {
		size <<= 1
	}
	return size
}

func (s *Session) rebuild(ctx context.Context, size int) error {
	if size == 0 {
		size = DefaultSize(len(s.cfg.Items))
	}
	t, err := s.builder.Build(ctx, brackets.BuildParams{
		ID:    s.cfg.WorldcupID,
		Title: s.cfg.Title,
		Items: s.seedOrder(),
		Size:  size,
	})
	if err != nil {
		return fmt.Errorf("build bracket: %w", err)
	}

	s.mu.Lock()
	s.tournament = t
	s.id = uuid.NewString()
	s.mu.Unlock()

	s.logger.Debug("bracket built", slog.Int("size", t.Size), slog.Int("rounds", t.TotalRounds))
	return nil
}

// seedOrder returns the items in bracket order. cfg.Items is never reordered.
func (s *Session) seedOrder() []*models.Item {
	if !s.cfg.Shuffle {
		return s.cfg.Items
	}
	shuffled := make([]*models.Item, len(s.cfg.Items))
	copy(shuffled, s.cfg.Items)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if s.cfg.Rand != nil {
		s.cfg.Rand.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	return shuffled
}

// Decide records winnerID as the winner of the current match.
// A call made while another decision is pending returns ErrDecisionInFlight
// and changes nothing.
func (s *Session) Decide(ctx context.Context, winnerID string) (Decision, error) {
	if !s.latch.TryAcquire() {
		return Decision{}, ErrDecisionInFlight
	}
	defer s.latch.Release()

	if s.cfg.PacingDelay > 0 {
		timer := time.NewTimer(s.cfg.PacingDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Decision{}, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tournament.IsCompleted {
		return Decision{}, ErrTournamentCompleted
	}
	next, vote, err := brackets.SelectWinner(s.tournament, winnerID)
	if err != nil {
		if errors.Is(err, brackets.ErrNoActiveMatch) && s.cfg.Strict {
			panic(fmt.Sprintf("game: incomplete tournament %s has no active match", s.tournament.ID))
		}
		return Decision{}, err
	}
	s.tournament = next

	vote.IdempotencyKey = votes.IdempotencyKey(s.id, vote)
	if err := s.acc.Append(vote); err != nil {
		s.logger.Warn("vote not buffered", slog.String("match_id", vote.MatchID), slog.Any("error", err))
	}

	return Decision{
		Vote:      vote,
		Next:      brackets.CurrentMatch(next),
		Completed: next.IsCompleted,
		Winner:    next.Winner,
	}, nil
}

// Undo reverts the last decision and retracts its vote if it is still buffered.
func (s *Session) Undo() (*models.Match, error) {
	if !s.latch.TryAcquire() {
		return nil, ErrDecisionInFlight
	}
	defer s.latch.Release()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, undone, ok := brackets.UndoLastMatch(s.tournament)
	if !ok {
		return nil, ErrNothingToUndo
	}
	s.tournament = next

	if undone.Winner != nil && !s.acc.Retract(undone.ID, undone.Winner.ID) {
		// already delivered; the collector keeps it
		s.logger.Debug("undone vote was already flushed", slog.String("match_id", undone.ID))
	}
	return brackets.CurrentMatch(next), nil
}

// Restart discards the bracket and buffered votes and starts over.
// size zero keeps the current bracket size.
func (s *Session) Restart(ctx context.Context, size int) error {
	if !s.latch.TryAcquire() {
		return ErrDecisionInFlight
	}
	defer s.latch.Release()
	if size == 0 {
		size = s.Size()
	}
	if err := s.rebuild(ctx, size); err != nil {
		return err
	}
	s.acc.Reset()
	return nil
}

func (s *Session) Current() *models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return brackets.CurrentMatch(s.tournament)
}

func (s *Session) Progress() models.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return brackets.TournamentProgress(s.tournament)
}

// Counts reports how many matches the bracket holds so far and how many
// decisions a full play takes.
func (s *Session) Counts() (built, required int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return brackets.CountMatches(s.tournament), brackets.DecisionsRequired(s.tournament)
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return brackets.CanUndo(s.tournament)
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tournament.IsCompleted
}

func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tournament.Size
}

// ID identifies the current play; it changes on Restart.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Accumulator() *votes.Accumulator {
	return s.acc
}

// Snapshot returns a copy of the tournament that is safe to read while play continues.
func (s *Session) Snapshot() models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *s.tournament
	cp.Matches = append([]models.Match(nil), s.tournament.Matches...)
	return cp
}

// StatisticsUpdate builds the end-of-tournament report.
func (s *Session) StatisticsUpdate(sessionToken string) (models.StatisticsUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tournament.IsCompleted {
		return models.StatisticsUpdate{}, errors.New("tournament is not completed")
	}
	return models.StatisticsUpdate{
		Matches:      append([]models.Match(nil), s.tournament.Matches...),
		Winner:       s.tournament.Winner,
		SessionToken: sessionToken,
	}, nil
}
