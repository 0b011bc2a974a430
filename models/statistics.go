package models

import "time"

// StatisticsUpdate is sent once per completed tournament.
type StatisticsUpdate struct {
	Matches      []Match `json:"matches"`
	Winner       *Item   `json:"winner"`
	SessionToken string  `json:"sessionToken"`
}

// ItemStatistics holds aggregate counters for one item.
type ItemStatistics struct {
	ItemID           string  `json:"itemId" db:"item_id"`
	Title            string  `json:"title" db:"title"`
	Wins             int     `json:"wins" db:"wins"`
	Losses           int     `json:"losses" db:"losses"`
	Championships    int     `json:"championships" db:"championships"`
	WinRate          float64 `json:"winRate" db:"-"`
	ChampionshipRate float64 `json:"championshipRate" db:"-"`
}

// WorldcupStatistics is the statistics reader response.
type WorldcupStatistics struct {
	WorldcupID  string           `json:"worldcupId"`
	TotalPlays  int              `json:"totalPlays"`
	Items       []ItemStatistics `json:"items"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// ComputeRates fills the derived percentages.
func (s *WorldcupStatistics) ComputeRates() {
	for i := range s.Items {
		it := &s.Items[i]
		if games := it.Wins + it.Losses; games > 0 {
			it.WinRate = float64(it.Wins) / float64(games) * 100
		}
		if s.TotalPlays > 0 {
			it.ChampionshipRate = float64(it.Championships) / float64(s.TotalPlays) * 100
		}
	}
}
