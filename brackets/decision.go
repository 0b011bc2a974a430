package brackets

import (
	"fmt"

	"github.com/Dosada05/worldcup/models"
)

// SelectWinner records winnerID as the winner of the current match and returns
// the new state together with the vote to accumulate. t is left untouched.
func SelectWinner(t *models.Tournament, winnerID string) (*models.Tournament, models.VoteRecord, error) {
	if t == nil {
		return nil, models.VoteRecord{}, ErrNoActiveMatch
	}
	idx := currentMatchIndex(t)
	if idx < 0 {
		return t, models.VoteRecord{}, ErrNoActiveMatch
	}
	if !t.Matches[idx].Contains(winnerID) {
		return t, models.VoteRecord{}, fmt.Errorf("%w: %q in match %s", ErrInvalidWinner, winnerID, t.Matches[idx].ID)
	}

	next := clone(t)
	m := &next.Matches[idx]
	winner := m.ItemA
	if m.ItemB.ID == winnerID {
		winner = m.ItemB
	}
	loser := m.Opponent(winnerID)
	m.Winner = winner
	m.IsCompleted = true

	vote := models.VoteRecord{WinnerID: winner.ID, MatchID: m.ID}
	if loser != nil {
		vote.LoserID = loser.ID
	}

	promote(next, m.Round, m.MatchNumber, winner)
	refreshCursor(next)
	return next, vote, nil
}
