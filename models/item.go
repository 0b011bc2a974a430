package models

// Item is a comparison subject. Items are never mutated after they are loaded;
// matches and tournaments share pointers to them.
type Item struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
