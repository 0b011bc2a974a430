package models

import "time"

// Worldcup is a stored item list that tournaments are played over.
type Worldcup struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Items []*Item `json:"items,omitempty" db:"-"`
}

// Session identifies a play session for the statistics update.
type Session struct {
	Token      string    `json:"sessionToken"`
	SessionID  string    `json:"sessionId"`
	WorldcupID string    `json:"worldcupId"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
