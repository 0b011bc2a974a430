package brackets

import "github.com/Dosada05/worldcup/models"

// CanUndo reports whether at least one match was decided by the player.
func CanUndo(t *models.Tournament) bool {
	return t != nil && lastDecidedIndex(t) >= 0
}

// UndoLastMatch reverts the most recent decision and every bye it cascaded
// into. The undone match (as it was before reverting) is returned so the caller
// can retract its vote. ok is false when there is nothing to undo.
func UndoLastMatch(t *models.Tournament) (next *models.Tournament, undone *models.Match, ok bool) {
	if t == nil {
		return nil, nil, false
	}
	idx := lastDecidedIndex(t)
	if idx < 0 {
		return t, nil, false
	}

	next = clone(t)
	decided := next.Matches[idx]
	retract(next, decided.Round, decided.MatchNumber)

	m := &next.Matches[next.FindMatch(decided.Round, decided.MatchNumber)]
	m.Winner = nil
	m.IsCompleted = false

	refreshCursor(next)
	return next, &decided, true
}

// Later rounds are always decided after their inputs, so the highest
// (round, matchNumber) decided match is the latest decision.
func lastDecidedIndex(t *models.Tournament) int {
	best := -1
	for i := range t.Matches {
		m := &t.Matches[i]
		if !m.IsCompleted || m.IsBye {
			continue
		}
		if best < 0 || before(&t.Matches[best], m) {
			best = i
		}
	}
	return best
}

// retract removes the result of (round, number) from the next round. The next
// match is dropped when the sibling input has not resolved yet, since it only
// existed because of this result.
func retract(t *models.Tournament, round, number int) {
	if round >= t.TotalRounds {
		t.Winner = nil
		t.IsCompleted = false
		return
	}

	nextRound, nextNumber := round+1, (number+1)/2
	idx := t.FindMatch(nextRound, nextNumber)
	if idx < 0 {
		return
	}

	// Only a bye can be completed above the latest decision.
	if t.Matches[idx].IsCompleted {
		retract(t, nextRound, nextNumber)
		idx = t.FindMatch(nextRound, nextNumber)
		p := &t.Matches[idx]
		p.Winner = nil
		p.IsCompleted = false
		p.IsBye = false
	}

	if !siblingResolved(t, round, number) {
		t.Matches = append(t.Matches[:idx], t.Matches[idx+1:]...)
		return
	}

	p := &t.Matches[idx]
	if number%2 == 1 {
		p.ItemA = nil
	} else {
		p.ItemB = nil
	}
}
