package brackets

import (
	"fmt"

	"github.com/Dosada05/worldcup/models"
)

// CurrentMatch returns a copy of the lowest (round, matchNumber) playable match,
// or nil when nothing is left to decide.
func CurrentMatch(t *models.Tournament) *models.Match {
	if t == nil {
		return nil
	}
	idx := currentMatchIndex(t)
	if idx < 0 {
		return nil
	}
	m := t.Matches[idx]
	return &m
}

func currentMatchIndex(t *models.Tournament) int {
	if t.IsCompleted {
		return -1
	}
	best := -1
	for i := range t.Matches {
		if !t.Matches[i].IsPlayable() {
			continue
		}
		if best < 0 || before(&t.Matches[i], &t.Matches[best]) {
			best = i
		}
	}
	return best
}

func before(a, b *models.Match) bool {
	if a.Round != b.Round {
		return a.Round < b.Round
	}
	return a.MatchNumber < b.MatchNumber
}

// TournamentProgress counts bye-resolved matches as completed, so the
// percentage never decreases while decisions are made.
func TournamentProgress(t *models.Tournament) models.Progress {
	if t == nil {
		return models.Progress{}
	}

	total := TotalMatches(t.Size)
	completed := 0
	for i := range t.Matches {
		if t.Matches[i].IsCompleted {
			completed++
		}
	}

	p := models.Progress{
		CurrentRound:      t.CurrentRound,
		TotalRounds:       t.TotalRounds,
		CurrentMatchIndex: completed + 1,
		TotalMatches:      total,
	}
	if p.CurrentMatchIndex > total {
		p.CurrentMatchIndex = total
	}
	if total > 0 {
		p.Percentage = float64(completed) / float64(total) * 100
	}
	return p
}

// RoundName labels a round by its distance from the final.
func RoundName(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	}
	return fmt.Sprintf("Round %d", round)
}

// TotalMatches is the number of matches in a full bracket of the given size.
func TotalMatches(size int) int {
	if size < 2 {
		return 0
	}
	return size - 1
}

// CountMatches returns how many matches currently exist in the bracket,
// bye-resolved ones included.
func CountMatches(t *models.Tournament) int {
	return len(t.Matches)
}

// DecisionsRequired is the number of matches a player has to decide.
func DecisionsRequired(t *models.Tournament) int {
	if len(t.Items) == 0 {
		return 0
	}
	return len(t.Items) - 1
}
