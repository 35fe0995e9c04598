package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

type MatchResult string

const (
	ResultWin  MatchResult = "win"
	ResultLoss MatchResult = "loss"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	ScoreboardID int         `json:"scoreboard_id" db:"scoreboard_id"`
	Location     *string     `json:"location,omitempty" db:"location"`
	Date         time.Time   `json:"date" db:"date"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedBy    int         `json:"created_by" db:"created_by"`
	IsEdited     bool        `json:"is_edited" db:"is_edited"`
	Remarks      *string     `json:"remarks,omitempty" db:"remarks"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Participants []MatchParticipant `json:"participants,omitempty" db:"-"`
	Scoreboard   *Scoreboard        `json:"scoreboard,omitempty" db:"-"`
	Creator      *User              `json:"creator,omitempty" db:"-"`
}

type MatchParticipant struct {
	ID       int         `json:"id" db:"id"`
	MatchID  int         `json:"match_id" db:"match_id"`
	TeamID   int         `json:"team_id" db:"team_id"`
	PlayerID int         `json:"player_id" db:"player_id"`
	Result   MatchResult `json:"result" db:"result"`

	Team   *Team   `json:"team,omitempty" db:"-"`
	Player *Player `json:"player,omitempty" db:"-"`
}
