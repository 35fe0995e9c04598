package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchScoreboardInvalid = errors.New("match scoreboard conflict or invalid")
	ErrParticipantRefInvalid  = errors.New("match participant team or player invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CreateParticipant(ctx context.Context, exec SQLExecutor, participant *models.MatchParticipant) error
	DeleteParticipantsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByCreator(ctx context.Context, userID int) ([]*models.Match, error)
	ListByScoreboard(ctx context.Context, scoreboardID int) ([]*models.Match, error)
	ListCompletedByScoreboard(ctx context.Context, scoreboardID, limit int) ([]*models.Match, error)
	ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (scoreboard_id, location, date, status, created_by, is_edited, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.ScoreboardID, match.Location, match.Date, match.Status,
		match.CreatedBy, match.IsEdited, match.Remarks,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) CreateParticipant(ctx context.Context, exec SQLExecutor, participant *models.MatchParticipant) error {
	query := `
		INSERT INTO match_participants (match_id, team_id, player_id, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		participant.MatchID, participant.TeamID, participant.PlayerID, participant.Result,
	).Scan(&participant.ID)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) DeleteParticipantsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	query := `DELETE FROM match_participants WHERE match_id = $1`

	_, err := exec.ExecContext(ctx, query, matchID)
	return err
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.ScoreboardID, &m.Location, &m.Date, &m.Status,
		&m.CreatedBy, &m.IsEdited, &m.Remarks, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, scoreboard_id, location, date, status, created_by, is_edited, remarks, created_at
		FROM matches
		WHERE id = $1`

	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByCreator(ctx context.Context, userID int) ([]*models.Match, error) {
	query := `
		SELECT id, scoreboard_id, location, date, status, created_by, is_edited, remarks, created_at
		FROM matches
		WHERE created_by = $1
		ORDER BY date DESC`

	return r.queryMatches(ctx, query, userID)
}

func (r *postgresMatchRepository) ListByScoreboard(ctx context.Context, scoreboardID int) ([]*models.Match, error) {
	query := `
		SELECT id, scoreboard_id, location, date, status, created_by, is_edited, remarks, created_at
		FROM matches
		WHERE scoreboard_id = $1
		ORDER BY date DESC`

	return r.queryMatches(ctx, query, scoreboardID)
}

func (r *postgresMatchRepository) ListCompletedByScoreboard(ctx context.Context, scoreboardID, limit int) ([]*models.Match, error) {
	query := `
		SELECT id, scoreboard_id, location, date, status, created_by, is_edited, remarks, created_at
		FROM matches
		WHERE scoreboard_id = $1 AND status = 'completed'
		ORDER BY date DESC
		LIMIT $2`

	return r.queryMatches(ctx, query, scoreboardID, limit)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

// ListParticipants fetches the participants of several matches at once,
// with player and team denormalized for display.
func (r *postgresMatchRepository) ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error) {
	if len(matchIDs) == 0 {
		return []*models.MatchParticipant{}, nil
	}

	query := `
		SELECT mp.id, mp.match_id, mp.team_id, mp.player_id, mp.result,
		       p.id, p.name, p.photo_key, p.created_at,
		       t.id, t.name, t.logo_key, t.created_at
		FROM match_participants mp
		JOIN players p ON p.id = mp.player_id
		JOIN teams t ON t.id = mp.team_id
		WHERE mp.match_id = ANY($1)
		ORDER BY mp.match_id, mp.id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query match participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.MatchParticipant, 0)
	for rows.Next() {
		var participant models.MatchParticipant
		var player models.Player
		var team models.Team
		if scanErr := rows.Scan(
			&participant.ID, &participant.MatchID, &participant.TeamID, &participant.PlayerID, &participant.Result,
			&player.ID, &player.Name, &player.PhotoKey, &player.CreatedAt,
			&team.ID, &team.Name, &team.LogoKey, &team.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match participant row: %w", scanErr)
		}
		participant.Player = &player
		participant.Team = &team
		participants = append(participants, &participant)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET location = $1, date = $2, status = $3, is_edited = $4, remarks = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query,
		match.Location, match.Date, match.Status, match.IsEdited, match.Remarks, match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM matches WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_scoreboard_id_fkey":
			return ErrMatchScoreboardInvalid
		case "match_participants_team_id_fkey", "match_participants_player_id_fkey":
			return ErrParticipantRefInvalid
		case "match_participants_match_id_fkey":
			return ErrMatchNotFound
		}
	}
	return err
}
