package models

import "time"

// PlayerStanding is a read projection over completed matches of one
// scoreboard. The team columns reflect the player's membership at query
// time, not the team they represented in each historical match.
type PlayerStanding struct {
	PlayerID int     `json:"player_id" db:"player_id"`
	Name     string  `json:"name" db:"name"`
	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
	TeamID   int     `json:"team_id" db:"team_id"`
	TeamName string  `json:"team_name" db:"team_name"`
	TeamLogo *string `json:"-" db:"team_logo_key"`
	TeamURL  *string `json:"team_logo_url,omitempty" db:"-"`
	Wins     int     `json:"wins" db:"wins"`
	Losses   int     `json:"losses" db:"losses"`
}

// TeamStanding counts distinct completed matches per team, so a team
// fielding several participants in one match is still counted once.
type TeamStanding struct {
	TeamID  int     `json:"team_id" db:"team_id"`
	Name    string  `json:"name" db:"name"`
	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
	Wins    int     `json:"wins" db:"wins"`
	Losses  int     `json:"losses" db:"losses"`
	WinRate int     `json:"win_rate"`
}

// MatchSide is one participant of a formatted match log entry.
type MatchSide struct {
	Player *Player `json:"player"`
	Team   *Team   `json:"team"`
}

// MatchLogEntry is a completed match split into winners and losers for
// the public match history view.
type MatchLogEntry struct {
	ID       int         `json:"id"`
	Date     time.Time   `json:"date"`
	Location *string     `json:"location,omitempty"`
	Scorer   string      `json:"scorer"`
	IsEdited bool        `json:"is_edited"`
	Remarks  *string     `json:"remarks,omitempty"`
	Winners  []MatchSide `json:"winners"`
	Losers   []MatchSide `json:"losers"`
}

// PlayerMatchEntry is one row of a player's per-scoreboard history.
type PlayerMatchEntry struct {
	MatchID  int         `json:"match_id"`
	Date     time.Time   `json:"date"`
	Location *string     `json:"location,omitempty"`
	Team     *Team       `json:"team"`
	Result   MatchResult `json:"result"`
}

type PlayerStatTotals struct {
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	TotalMatches int `json:"total_matches"`
}

type PlayerScoreboardStats struct {
	Player       *Player            `json:"player"`
	Stats        PlayerStatTotals   `json:"stats"`
	MatchHistory []PlayerMatchEntry `json:"match_history"`
}

// ScoreboardSummary bundles every public read of one scoreboard.
type ScoreboardSummary struct {
	Scoreboard    *Scoreboard      `json:"scoreboard"`
	Standings     []PlayerStanding `json:"standings"`
	TeamStandings []TeamStanding   `json:"team_standings"`
	RecentMatches []MatchLogEntry  `json:"recent_matches"`
}
