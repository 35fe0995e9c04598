package models

import "time"

// ScoreboardStatus mirrors the ENUM in the database.
type ScoreboardStatus string

const (
	ScoreboardStatusActive   ScoreboardStatus = "active"
	ScoreboardStatusInactive ScoreboardStatus = "inactive"
)

type Scoreboard struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	PublicSlug  string           `json:"public_slug" db:"public_slug"`
	Status      ScoreboardStatus `json:"status" db:"status"`
	CreatedBy   int              `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Teams   []Team             `json:"teams,omitempty" db:"-"`
	Creator *User              `json:"creator,omitempty" db:"-"`
	Scorers []ScorerAssignment `json:"scorers,omitempty" db:"-"`
}

// ScoreboardTeam registers a team as competing in a scoreboard.
// Unique per (scoreboard_id, team_id).
type ScoreboardTeam struct {
	ID           int       `json:"id" db:"id"`
	ScoreboardID int       `json:"scoreboard_id" db:"scoreboard_id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ScorerAssignment grants a user write access scoped to one scoreboard.
// Unique per (user_id, scoreboard_id).
type ScorerAssignment struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	ScoreboardID int       `json:"scoreboard_id" db:"scoreboard_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
