package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/scoreboard-system/models"
)

// StandingRepository derives rankings from completed matches on every
// call; nothing is persisted or cached.
type StandingRepository interface {
	PlayerStandings(ctx context.Context, scoreboardID int) ([]models.PlayerStanding, error)
	TeamStandings(ctx context.Context, scoreboardID int) ([]models.TeamStanding, error)
	PlayerResults(ctx context.Context, scoreboardID, playerID int) ([]models.PlayerMatchEntry, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// PlayerStandings lists every player whose team is assigned to the
// scoreboard, including players with no recorded matches. The team
// columns are the player's membership at query time, which is joined
// against historical results on purpose (known limitation, kept for
// parity with the dashboard).
func (r *postgresStandingRepository) PlayerStandings(ctx context.Context, scoreboardID int) ([]models.PlayerStanding, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.photo_key,
			t.id AS team_id,
			t.name AS team_name,
			t.logo_key AS team_logo_key,
			COALESCE(SUM(CASE WHEN mp.result = 'win' AND m.scoreboard_id = $1 AND m.status = 'completed' THEN 1 ELSE 0 END), 0) AS wins,
			COALESCE(SUM(CASE WHEN mp.result = 'loss' AND m.scoreboard_id = $1 AND m.status = 'completed' THEN 1 ELSE 0 END), 0) AS losses
		FROM players p
		JOIN team_players tp ON tp.player_id = p.id
		JOIN teams t ON t.id = tp.team_id
		JOIN scoreboard_teams st ON st.team_id = t.id
		LEFT JOIN match_participants mp ON mp.player_id = p.id
		LEFT JOIN matches m ON m.id = mp.match_id
		WHERE st.scoreboard_id = $1
		GROUP BY p.id, p.name, p.photo_key, t.id, t.name, t.logo_key
		ORDER BY wins DESC, losses ASC, p.name ASC`

	rows, err := r.db.QueryContext(ctx, query, scoreboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player standings for scoreboard %d: %w", scoreboardID, err)
	}
	defer rows.Close()

	standings := make([]models.PlayerStanding, 0)
	for rows.Next() {
		var s models.PlayerStanding
		if scanErr := rows.Scan(
			&s.PlayerID, &s.Name, &s.PhotoKey,
			&s.TeamID, &s.TeamName, &s.TeamLogo,
			&s.Wins, &s.Losses,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player standing row: %w", scanErr)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player standing rows iteration: %w", err)
	}
	return standings, nil
}

// TeamStandings counts distinct matches, not participant rows, so a
// team fielding more than one participant in a match is counted once.
func (r *postgresStandingRepository) TeamStandings(ctx context.Context, scoreboardID int) ([]models.TeamStanding, error) {
	query := `
		SELECT
			t.id,
			t.name,
			t.logo_key,
			COUNT(DISTINCT CASE WHEN mp.result = 'win' AND m.scoreboard_id = $1 AND m.status = 'completed' THEN m.id END) AS wins,
			COUNT(DISTINCT CASE WHEN mp.result = 'loss' AND m.scoreboard_id = $1 AND m.status = 'completed' THEN m.id END) AS losses
		FROM teams t
		JOIN scoreboard_teams st ON st.team_id = t.id
		LEFT JOIN match_participants mp ON mp.team_id = t.id
		LEFT JOIN matches m ON m.id = mp.match_id
		WHERE st.scoreboard_id = $1
		GROUP BY t.id, t.name, t.logo_key
		ORDER BY wins DESC, losses ASC, t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, scoreboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team standings for scoreboard %d: %w", scoreboardID, err)
	}
	defer rows.Close()

	standings := make([]models.TeamStanding, 0)
	for rows.Next() {
		var s models.TeamStanding
		if scanErr := rows.Scan(&s.TeamID, &s.Name, &s.LogoKey, &s.Wins, &s.Losses); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team standing row: %w", scanErr)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team standing rows iteration: %w", err)
	}
	return standings, nil
}

// PlayerResults returns one player's completed-match history within a
// scoreboard, newest first.
func (r *postgresStandingRepository) PlayerResults(ctx context.Context, scoreboardID, playerID int) ([]models.PlayerMatchEntry, error) {
	query := `
		SELECT m.id, m.date, m.location, mp.result,
		       t.id, t.name, t.logo_key, t.created_at
		FROM match_participants mp
		JOIN matches m ON m.id = mp.match_id
		JOIN teams t ON t.id = mp.team_id
		WHERE mp.player_id = $2 AND m.scoreboard_id = $1 AND m.status = 'completed'
		ORDER BY m.date DESC`

	rows, err := r.db.QueryContext(ctx, query, scoreboardID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for player %d in scoreboard %d: %w", playerID, scoreboardID, err)
	}
	defer rows.Close()

	entries := make([]models.PlayerMatchEntry, 0)
	for rows.Next() {
		var entry models.PlayerMatchEntry
		var team models.Team
		if scanErr := rows.Scan(
			&entry.MatchID, &entry.Date, &entry.Location, &entry.Result,
			&team.ID, &team.Name, &team.LogoKey, &team.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player result row: %w", scanErr)
		}
		entry.Team = &team
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player result rows iteration: %w", err)
	}
	return entries, nil
}
