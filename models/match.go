package models

// Match is one pairing of the bracket. ItemA/ItemB are nil while the slot
// is pending (or permanently empty for a bye).
type Match struct {
	ID          string `json:"id"`
	Round       int    `json:"round"`
	MatchNumber int    `json:"matchNumber"`
	ItemA       *Item  `json:"itemA,omitempty"`
	ItemB       *Item  `json:"itemB,omitempty"`
	Winner      *Item  `json:"winner,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
	// IsBye помечает матч, завершённый автоматически (без решения игрока).
	IsBye bool `json:"isBye,omitempty"`
}

// IsPlayable reports whether both slots are filled and no winner is recorded yet.
func (m *Match) IsPlayable() bool {
	return !m.IsCompleted && m.ItemA != nil && m.ItemB != nil
}

// Opponent returns the other item of the match, or nil.
func (m *Match) Opponent(itemID string) *Item {
	switch {
	case m.ItemA != nil && m.ItemA.ID == itemID:
		return m.ItemB
	case m.ItemB != nil && m.ItemB.ID == itemID:
		return m.ItemA
	}
	return nil
}

// Contains reports whether itemID occupies one of the slots.
func (m *Match) Contains(itemID string) bool {
	return (m.ItemA != nil && m.ItemA.ID == itemID) || (m.ItemB != nil && m.ItemB.ID == itemID)
}
