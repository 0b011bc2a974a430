// worldcup/brackets/single_elimination.go
package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/Dosada05/worldcup/models"
)

// MaxBracketSize is the largest bracket the builder accepts.
const MaxBracketSize = 1024

var (
	ErrInvalidTournamentSize = errors.New("invalid tournament size")
	ErrNoActiveMatch         = errors.New("no active match")
	ErrInvalidWinner         = errors.New("winner is not part of the current match")
)

type SingleEliminationBuilder struct {
}

func NewSingleEliminationBuilder() BracketBuilder {
	return &SingleEliminationBuilder{}
}

// IsSupportedSize reports whether size is a power of two in [2, MaxBracketSize].
func IsSupportedSize(size int) bool {
	return size >= 2 && size <= MaxBracketSize && size&(size-1) == 0
}

// Build creates the round-1 matches. Bye matches are resolved immediately and
// their winners promoted, so some later-round matches may already exist.
func (g *SingleEliminationBuilder) Build(ctx context.Context, params BuildParams) (*models.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := params.Size
	if !IsSupportedSize(size) {
		return nil, fmt.Errorf("%w: %d is not a power of two between 2 and %d", ErrInvalidTournamentSize, size, MaxBracketSize)
	}
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("%w: cannot seed a bracket with zero items", ErrInvalidTournamentSize)
	}

	items := params.Items
	if len(items) > size {
		items = items[:size]
	}
	seeded := make([]*models.Item, len(items))
	copy(seeded, items)

	t := &models.Tournament{
		ID:          params.ID,
		Title:       params.Title,
		Size:        size,
		Items:       seeded,
		Matches:     make([]models.Match, 0, size-1),
		TotalRounds: bits.TrailingZeros(uint(size)),
	}

	layout := seedLayout(len(seeded), size)
	for i := 0; i < size/2; i++ {
		m := models.Match{
			ID:          matchUID(1, i+1),
			Round:       1,
			MatchNumber: i + 1,
		}
		if idx := layout[2*i]; idx >= 0 {
			m.ItemA = seeded[idx]
		}
		if idx := layout[2*i+1]; idx >= 0 {
			m.ItemB = seeded[idx]
		}
		t.Matches = append(t.Matches, m)

		if m.ItemA == nil || m.ItemB == nil {
			resolveBye(t, len(t.Matches)-1)
		}
	}

	refreshCursor(t)
	return t, nil
}

// seedLayout maps every round-1 slot to an index into items, -1 meaning a bye.
// The first size-n pairs get a single item so that byes are spread one per
// item; once items run out the remaining pairs are bye against bye.
func seedLayout(n, size int) []int {
	slots := make([]int, size)
	for i := range slots {
		slots[i] = -1
	}

	byes := size - n
	next := 0
	for p := 0; p < size/2 && next < n; p++ {
		slots[2*p] = next
		next++
		if p >= byes && next < n {
			slots[2*p+1] = next
			next++
		}
	}
	return slots
}

func matchUID(round, number int) string {
	return fmt.Sprintf("R%dM%d", round, number)
}

// resolveBye completes the match at idx without a decision. The winner is the
// only item present, or nil when both slots are empty.
func resolveBye(t *models.Tournament, idx int) {
	m := &t.Matches[idx]
	m.IsBye = true
	m.IsCompleted = true
	m.Winner = m.ItemA
	if m.Winner == nil {
		m.Winner = m.ItemB
	}
	promote(t, m.Round, m.MatchNumber, m.Winner)
}

// promote moves winner of (round, number) into its slot of the next round,
// creating that match if needed. Once both inputs of the next match are
// resolved and one of them is empty it resolves as a bye, which may cascade.
func promote(t *models.Tournament, round, number int, winner *models.Item) {
	if round >= t.TotalRounds {
		t.Winner = winner
		t.IsCompleted = true
		return
	}

	nextRound, nextNumber := round+1, (number+1)/2
	idx := t.FindMatch(nextRound, nextNumber)
	if idx < 0 {
		t.Matches = append(t.Matches, models.Match{
			ID:          matchUID(nextRound, nextNumber),
			Round:       nextRound,
			MatchNumber: nextNumber,
		})
		idx = len(t.Matches) - 1
	}

	next := &t.Matches[idx]
	if number%2 == 1 {
		next.ItemA = winner
	} else {
		next.ItemB = winner
	}

	if !siblingResolved(t, round, number) {
		return
	}
	if next.ItemA != nil && next.ItemB != nil {
		return
	}
	resolveBye(t, idx)
}

// siblingResolved reports whether the other input of the next-round match has
// already delivered its result.
func siblingResolved(t *models.Tournament, round, number int) bool {
	sibling := number + 1
	if number%2 == 0 {
		sibling = number - 1
	}
	idx := t.FindMatch(round, sibling)
	return idx >= 0 && t.Matches[idx].IsCompleted
}

func refreshCursor(t *models.Tournament) {
	if idx := currentMatchIndex(t); idx >= 0 {
		t.CurrentRound = t.Matches[idx].Round
		return
	}
	t.CurrentRound = t.TotalRounds
}

// clone copies the tournament and its match list. Items are shared.
func clone(t *models.Tournament) *models.Tournament {
	cp := *t
	cp.Matches = make([]models.Match, len(t.Matches), len(t.Matches)+2)
	copy(cp.Matches, t.Matches)
	return &cp
}
