package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/worldcup/models"
)

func makeItems(n int) []*models.Item {
	items := make([]*models.Item, n)
	for i := range items {
		items[i] = &models.Item{ID: fmt.Sprintf("item-%d", i+1), Title: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

func build(t *testing.T, n, size int) *models.Tournament {
	t.Helper()
	tournament, err := NewSingleEliminationBuilder().Build(context.Background(), BuildParams{
		ID:    "wc-test",
		Title: "Test Cup",
		Items: makeItems(n),
		Size:  size,
	})
	require.NoError(t, err)
	return tournament
}

// playAll decides every match in favour of slot A and returns the final state
// together with every vote produced.
func playAll(t *testing.T, tournament *models.Tournament) (*models.Tournament, []models.VoteRecord) {
	t.Helper()
	var votes []models.VoteRecord
	for guard := 0; !tournament.IsCompleted; guard++ {
		require.Less(t, guard, 2048, "tournament did not finish")
		current := CurrentMatch(tournament)
		require.NotNil(t, current)
		next, vote, err := SelectWinner(tournament, current.ItemA.ID)
		require.NoError(t, err)
		votes = append(votes, vote)
		tournament = next
	}
	return tournament, votes
}

func TestBuild_EightItems(t *testing.T) {
	tournament := build(t, 8, 8)

	assert.Equal(t, 3, tournament.TotalRounds)
	assert.Equal(t, 1, tournament.CurrentRound)
	assert.Len(t, tournament.Matches, 4)
	assert.Equal(t, 7, TournamentProgress(tournament).TotalMatches)

	current := CurrentMatch(tournament)
	require.NotNil(t, current)
	assert.Equal(t, 1, current.Round)
	assert.Equal(t, 1, current.MatchNumber)
	assert.Equal(t, "item-1", current.ItemA.ID)
	assert.Equal(t, "item-2", current.ItemB.ID)

	final, votes := playAll(t, tournament)
	assert.Len(t, final.Matches, 7)
	assert.Len(t, votes, 7)
	assert.Equal(t, "item-1", final.Winner.ID)
}

func TestBuild_FiveItemsGetThreeByes(t *testing.T) {
	tournament := build(t, 5, 8)

	byes := 0
	for _, m := range tournament.Matches {
		if m.Round == 1 && m.IsBye {
			byes++
			assert.True(t, m.IsCompleted)
			assert.NotNil(t, m.Winner)
		}
	}
	assert.Equal(t, 3, byes)

	first := tournament.Matches[tournament.FindMatch(1, 1)]
	assert.Equal(t, "item-1", first.Winner.ID)
	assert.Nil(t, first.ItemB)

	current := CurrentMatch(tournament)
	require.NotNil(t, current)
	assert.Equal(t, "R1M4", current.ID)
	assert.Equal(t, "item-4", current.ItemA.ID)
	assert.Equal(t, "item-5", current.ItemB.ID)

	final, votes := playAll(t, tournament)
	assert.Len(t, votes, 4, "byes must not produce votes")
	for _, v := range votes {
		assert.NotEmpty(t, v.LoserID)
	}
	assert.Len(t, final.Matches, 7)
}

func TestBuild_SparseBracketCascadesByes(t *testing.T) {
	tournament := build(t, 2, 8)

	current := CurrentMatch(tournament)
	require.NotNil(t, current)
	assert.Equal(t, "R2M1", current.ID)
	assert.Equal(t, 2, tournament.CurrentRound)

	next, vote, err := SelectWinner(tournament, "item-2")
	require.NoError(t, err)
	assert.Equal(t, "item-1", vote.LoserID)
	assert.True(t, next.IsCompleted)
	assert.Equal(t, "item-2", next.Winner.ID)
	assert.Len(t, next.Matches, 7)
	assert.Equal(t, 100.0, TournamentProgress(next).Percentage)

	undone, _, ok := UndoLastMatch(next)
	require.True(t, ok)
	assert.Equal(t, tournament, undone)
}

func TestBuild_SingleItemCompletesImmediately(t *testing.T) {
	tournament := build(t, 1, 2)

	assert.True(t, tournament.IsCompleted)
	assert.Equal(t, "item-1", tournament.Winner.ID)
	assert.Nil(t, CurrentMatch(tournament))
	assert.False(t, CanUndo(tournament))
}

func TestBuild_TruncatesToSize(t *testing.T) {
	tournament := build(t, 10, 8)

	require.Len(t, tournament.Items, 8)
	assert.Equal(t, "item-8", tournament.Items[7].ID)
	for _, m := range tournament.Matches {
		assert.False(t, m.IsBye)
	}
}

func TestBuild_InvalidParams(t *testing.T) {
	builder := NewSingleEliminationBuilder()
	ctx := context.Background()

	for _, size := range []int{-4, 0, 1, 3, 6, 12, MaxBracketSize * 2} {
		_, err := builder.Build(ctx, BuildParams{Items: makeItems(4), Size: size})
		assert.ErrorIs(t, err, ErrInvalidTournamentSize, "size %d", size)
	}

	_, err := builder.Build(ctx, BuildParams{Items: nil, Size: 8})
	assert.ErrorIs(t, err, ErrInvalidTournamentSize)
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSingleEliminationBuilder().Build(ctx, BuildParams{Items: makeItems(4), Size: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBracket_MatchCountAndProgressProperties(t *testing.T) {
	for size := 2; size <= 64; size *= 2 {
		for n := 1; n <= size; n++ {
			t.Run(fmt.Sprintf("size=%d/items=%d", size, n), func(t *testing.T) {
				tournament := build(t, n, size)
				last := TournamentProgress(tournament).Percentage
				decisions := 0

				for !tournament.IsCompleted {
					current := CurrentMatch(tournament)
					require.NotNil(t, current)
					pick := current.ItemB.ID
					if decisions%2 == 0 {
						pick = current.ItemA.ID
					}
					next, _, err := SelectWinner(tournament, pick)
					require.NoError(t, err)
					decisions++

					pct := TournamentProgress(next).Percentage
					assert.GreaterOrEqual(t, pct, last)
					last = pct
					tournament = next
				}

				assert.Equal(t, size-1, CountMatches(tournament))
				assert.Equal(t, DecisionsRequired(tournament), decisions)
				assert.Equal(t, 100.0, TournamentProgress(tournament).Percentage)
				assert.Equal(t, tournament.TotalRounds, tournament.CurrentRound)
				assert.NotNil(t, tournament.Winner)
			})
		}
	}
}
