package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/votes"
)

func items(n int) []*models.Item {
	out := make([]*models.Item, n)
	for i := range out {
		out[i] = &models.Item{ID: fmt.Sprintf("item-%d", i+1), Title: fmt.Sprintf("Item %d", i+1)}
	}
	return out
}

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.WorldcupID == "" {
		cfg.WorldcupID = "wc-1"
	}
	s, err := NewSession(context.Background(), cfg, votes.NewAccumulator(0), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestCounts(t *testing.T) {
	s := newSession(t, Config{Items: items(5), Size: 8})
	built, required := s.Counts()
	// 4 матча первого круга и 2 матча второго, созданные bye
	assert.Equal(t, 6, built)
	assert.Equal(t, 4, required)
}

func TestDefaultSize(t *testing.T) {
	assert.Equal(t, 2, DefaultSize(0))
	assert.Equal(t, 2, DefaultSize(2))
	assert.Equal(t, 8, DefaultSize(5))
	assert.Equal(t, 16, DefaultSize(16))
	assert.Equal(t, 1024, DefaultSize(5000))
}

func TestDecideBuffersVoteWithKey(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4})

	cur := s.Current()
	require.NotNil(t, cur)
	d, err := s.Decide(context.Background(), cur.ItemA.ID)
	require.NoError(t, err)

	assert.Equal(t, cur.ItemA.ID, d.Vote.WinnerID)
	assert.Equal(t, cur.ItemB.ID, d.Vote.LoserID)
	assert.Len(t, d.Vote.IdempotencyKey, 32)
	assert.False(t, d.Completed)
	assert.Equal(t, 1, s.Accumulator().Size())
	assert.True(t, s.CanUndo())
}

func TestDecideRejectsUnknownWinner(t *testing.T) {
	s := newSession(t, Config{Items: items(2), Size: 2})

	_, err := s.Decide(context.Background(), "nobody")
	require.Error(t, err)
	assert.Zero(t, s.Accumulator().Size())
}

func TestPlayToCompletion(t *testing.T) {
	s := newSession(t, Config{Items: items(5), Size: 8})

	var last Decision
	for s.Current() != nil {
		var err error
		last, err = s.Decide(context.Background(), s.Current().ItemA.ID)
		require.NoError(t, err)
	}

	assert.True(t, last.Completed)
	require.NotNil(t, last.Winner)
	assert.True(t, s.Completed())
	assert.Equal(t, 4, s.Accumulator().Size())
	assert.Equal(t, 100.0, s.Progress().Percentage)

	_, err := s.Decide(context.Background(), last.Winner.ID)
	assert.ErrorIs(t, err, ErrTournamentCompleted)

	upd, err := s.StatisticsUpdate("token")
	require.NoError(t, err)
	assert.Equal(t, last.Winner.ID, upd.Winner.ID)
	assert.Len(t, upd.Matches, 7)
}

func TestDoubleTriggerIsIgnored(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4, PacingDelay: 200 * time.Millisecond})
	cur := s.Current()

	done := make(chan error, 1)
	go func() {
		_, err := s.Decide(context.Background(), cur.ItemA.ID)
		done <- err
	}()
	require.Eventually(t, s.latch.Held, time.Second, time.Millisecond)

	_, err := s.Decide(context.Background(), cur.ItemB.ID)
	assert.ErrorIs(t, err, ErrDecisionInFlight)
	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrDecisionInFlight)
	assert.ErrorIs(t, s.Restart(context.Background(), 0), ErrDecisionInFlight)

	require.NoError(t, <-done)
	assert.Equal(t, 1, s.Accumulator().Size())
	assert.Equal(t, 2, s.Progress().CurrentMatchIndex)
}

func TestPacingDelayHonoursCancel(t *testing.T) {
	s := newSession(t, Config{Items: items(2), Size: 2, PacingDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Decide(ctx, s.Current().ItemA.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.latch.Held())
	assert.Zero(t, s.Accumulator().Size())
}

func TestUndoRetractsBufferedVote(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4})
	first := s.Current()

	_, err := s.Decide(context.Background(), first.ItemB.ID)
	require.NoError(t, err)

	cur, err := s.Undo()
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, first.ID, cur.ID)
	assert.Zero(t, s.Accumulator().Size())
	assert.False(t, s.CanUndo())

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestUndoAfterFlushKeepsQueueEmpty(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4})
	_, err := s.Decide(context.Background(), s.Current().ItemA.ID)
	require.NoError(t, err)
	s.Accumulator().Drain()

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Zero(t, s.Accumulator().Size())
}

func TestRestart(t *testing.T) {
	s := newSession(t, Config{Items: items(8), Size: 8})
	_, err := s.Decide(context.Background(), s.Current().ItemA.ID)
	require.NoError(t, err)
	oldID := s.ID()

	require.NoError(t, s.Restart(context.Background(), 4))

	assert.Equal(t, 4, s.Size())
	assert.Zero(t, s.Accumulator().Size())
	assert.NotEqual(t, oldID, s.ID())
	assert.False(t, s.CanUndo())

	require.NoError(t, s.Restart(context.Background(), 0))
	assert.Equal(t, 4, s.Size())

	assert.Error(t, s.Restart(context.Background(), 3))
	assert.Equal(t, 4, s.Size())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4})
	snap := s.Snapshot()
	snap.Matches[0].IsCompleted = true

	assert.False(t, s.Snapshot().Matches[0].IsCompleted)
}

func TestStrictModePanicsOnBrokenBracket(t *testing.T) {
	s := newSession(t, Config{Items: items(2), Size: 2, Strict: true})
	s.tournament = &models.Tournament{ID: "broken", Size: 2, TotalRounds: 1}

	assert.Panics(t, func() { _, _ = s.Decide(context.Background(), "item-1") })
}

func TestLenientModeReturnsError(t *testing.T) {
	s := newSession(t, Config{Items: items(2), Size: 2})
	s.tournament = &models.Tournament{ID: "broken", Size: 2, TotalRounds: 1}

	_, err := s.Decide(context.Background(), "item-1")
	assert.Error(t, err)
}

func TestStatisticsUpdateRequiresCompletion(t *testing.T) {
	s := newSession(t, Config{Items: items(2), Size: 2})
	_, err := s.StatisticsUpdate("tok")
	assert.Error(t, err)
}

func TestUndoAndRestartTakeTheLatch(t *testing.T) {
	s := newSession(t, Config{Items: items(4), Size: 4})
	_, err := s.Decide(context.Background(), s.Current().ItemA.ID)
	require.NoError(t, err)

	require.True(t, s.latch.TryAcquire())
	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrDecisionInFlight)
	assert.ErrorIs(t, s.Restart(context.Background(), 0), ErrDecisionInFlight)
	_, err = s.Decide(context.Background(), s.Current().ItemA.ID)
	assert.ErrorIs(t, err, ErrDecisionInFlight)
	assert.True(t, s.CanUndo())
	s.latch.Release()

	_, err = s.Undo()
	require.NoError(t, err)
	assert.False(t, s.latch.Held())

	require.NoError(t, s.Restart(context.Background(), 0))
	assert.False(t, s.latch.Held())
}

// roundOne renders the round-1 pairings, "-" standing for a bye.
func roundOne(s *Session) string {
	var parts []string
	for _, m := range s.Snapshot().Matches {
		if m.Round != 1 {
			continue
		}
		a, b := "-", "-"
		if m.ItemA != nil {
			a = m.ItemA.ID
		}
		if m.ItemB != nil {
			b = m.ItemB.ID
		}
		parts = append(parts, a+"v"+b)
	}
	return strings.Join(parts, " ")
}

func TestShuffleSeedsEachBracketAfresh(t *testing.T) {
	pool := items(5)
	s := newSession(t, Config{Items: pool, Size: 8, Shuffle: true, Rand: rand.New(rand.NewPCG(7, 11))})

	layouts := map[string]bool{roundOne(s): true}
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Restart(context.Background(), 0))
		layouts[roundOne(s)] = true

		seen := map[string]bool{}
		for _, m := range s.Snapshot().Matches {
			if m.Round == 1 && m.ItemA != nil {
				seen[m.ItemA.ID] = true
			}
			if m.Round == 1 && m.ItemB != nil {
				seen[m.ItemB.ID] = true
			}
		}
		assert.Len(t, seen, 5)
	}
	assert.Greater(t, len(layouts), 1)

	// исходный список не переставляется
	for i, it := range pool {
		assert.Equal(t, fmt.Sprintf("item-%d", i+1), it.ID)
	}
}

func TestShuffleIsReproducibleWithSameSeed(t *testing.T) {
	a := newSession(t, Config{Items: items(6), Size: 8, Shuffle: true, Rand: rand.New(rand.NewPCG(3, 5))})
	b := newSession(t, Config{Items: items(6), Size: 8, Shuffle: true, Rand: rand.New(rand.NewPCG(3, 5))})
	assert.Equal(t, roundOne(a), roundOne(b))
}

func TestUnshuffledBracketKeepsGivenOrder(t *testing.T) {
	s := newSession(t, Config{Items: items(5), Size: 8})
	first := roundOne(s)
	assert.Equal(t, "item-1v- item-2v- item-3v- item-4vitem-5", first)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Restart(context.Background(), 0))
		assert.Equal(t, first, roundOne(s))
	}
}
