package entity

import "time"

// Snapshot is a read-only view of the session published to the status API.
type Snapshot struct {
	Board     [][]Color `json:"board"`
	Phase     string    `json:"phase"`
	Turn      string    `json:"turn,omitempty"`
	Winner    string    `json:"winner,omitempty"`
	Black     bool      `json:"black_taken"`
	White     bool      `json:"white_taken"`
	Players   int       `json:"players"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}
