package models

import "time"

// TeamMembership links a player to a team. A scorer asking to drop a player
// only flips RemovalRequested; the row is deleted once an admin approves.
type TeamMembership struct {
	ID               int       `json:"id" db:"id"`
	TeamID           int       `json:"team_id" db:"team_id"`
	PlayerID         int       `json:"player_id" db:"player_id"`
	RemovalRequested bool      `json:"removal_requested" db:"removal_requested"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	Team   *Team   `json:"team,omitempty" db:"-"`
	Player *Player `json:"player,omitempty" db:"-"`
}
