package models

// Tournament is the full bracket state of one play session.
type Tournament struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Size         int     `json:"size"`
	Items        []*Item `json:"items"`
	Matches      []Match `json:"matches"`
	CurrentRound int     `json:"currentRound"`
	TotalRounds  int     `json:"totalRounds"`
	Winner       *Item   `json:"winner,omitempty"`
	IsCompleted  bool    `json:"isCompleted"`
}

// Progress describes how far a tournament has advanced.
type Progress struct {
	CurrentRound      int     `json:"currentRound"`
	TotalRounds       int     `json:"totalRounds"`
	CurrentMatchIndex int     `json:"currentMatchIndex"`
	TotalMatches      int     `json:"totalMatches"`
	Percentage        float64 `json:"percentage"`
}

// FindMatch returns the index of the match at (round, matchNumber) or -1.
func (t *Tournament) FindMatch(round, matchNumber int) int {
	for i := range t.Matches {
		if t.Matches[i].Round == round && t.Matches[i].MatchNumber == matchNumber {
			return i
		}
	}
	return -1
}
