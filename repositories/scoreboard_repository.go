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
	ErrScoreboardNotFound       = errors.New("scoreboard not found")
	ErrScoreboardSlugConflict   = errors.New("public slug already exists")
	ErrTeamAssignmentNotFound   = errors.New("team not assigned to this scoreboard")
	ErrTeamAssignmentConflict   = errors.New("team already assigned to this scoreboard")
	ErrScorerAssignmentNotFound = errors.New("user not assigned to this scoreboard")
	ErrScorerAssignmentConflict = errors.New("user already assigned to this scoreboard")
)

type ScoreboardRepository interface {
	Create(ctx context.Context, scoreboard *models.Scoreboard) error
	GetByID(ctx context.Context, id int) (*models.Scoreboard, error)
	GetBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Scoreboard, error)
	List(ctx context.Context) ([]*models.Scoreboard, error)
	ListByScorer(ctx context.Context, userID int) ([]*models.Scoreboard, error)
	Update(ctx context.Context, scoreboard *models.Scoreboard) error
	Delete(ctx context.Context, id int) error

	AssignTeam(ctx context.Context, scoreboardID, teamID int) error
	UnassignTeam(ctx context.Context, scoreboardID, teamID int) error
	FindTeamAssignment(ctx context.Context, scoreboardID, teamID int) (*models.ScoreboardTeam, error)
	ListTeams(ctx context.Context, scoreboardID int) ([]models.Team, error)

	AssignScorer(ctx context.Context, userID, scoreboardID int) error
	UnassignScorer(ctx context.Context, userID, scoreboardID int) error
	FindScorerAssignment(ctx context.Context, userID, scoreboardID int) (*models.ScorerAssignment, error)
	ListScorers(ctx context.Context, scoreboardID int) ([]models.ScorerAssignment, error)
}

type postgresScoreboardRepository struct {
	db *sql.DB
}

func NewPostgresScoreboardRepository(db *sql.DB) ScoreboardRepository {
	return &postgresScoreboardRepository{db: db}
}

func (r *postgresScoreboardRepository) Create(ctx context.Context, scoreboard *models.Scoreboard) error {
	query := `
		INSERT INTO scoreboards (name, description, public_slug, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		scoreboard.Name, scoreboard.Description, scoreboard.PublicSlug,
		scoreboard.Status, scoreboard.CreatedBy,
	).Scan(&scoreboard.ID, &scoreboard.CreatedAt)

	return r.handleScoreboardError(err)
}

func (r *postgresScoreboardRepository) scanScoreboard(rowScanner interface{ Scan(...interface{}) error }) (*models.Scoreboard, error) {
	var s models.Scoreboard
	err := rowScanner.Scan(
		&s.ID, &s.Name, &s.Description, &s.PublicSlug, &s.Status, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreboardNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresScoreboardRepository) GetByID(ctx context.Context, id int) (*models.Scoreboard, error) {
	query := `
		SELECT id, name, description, public_slug, status, created_by, created_at
		FROM scoreboards
		WHERE id = $1`

	return r.scanScoreboard(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresScoreboardRepository) GetBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Scoreboard, error) {
	query := `
		SELECT id, name, description, public_slug, status, created_by, created_at
		FROM scoreboards
		WHERE public_slug = $1`
	if onlyActive {
		query += ` AND status = 'active'`
	}

	return r.scanScoreboard(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresScoreboardRepository) List(ctx context.Context) ([]*models.Scoreboard, error) {
	query := `
		SELECT id, name, description, public_slug, status, created_by, created_at
		FROM scoreboards
		ORDER BY created_at DESC`

	return r.queryScoreboards(ctx, query)
}

func (r *postgresScoreboardRepository) ListByScorer(ctx context.Context, userID int) ([]*models.Scoreboard, error) {
	query := `
		SELECT s.id, s.name, s.description, s.public_slug, s.status, s.created_by, s.created_at
		FROM scoreboards s
		JOIN scorer_users su ON su.scoreboard_id = s.id
		WHERE su.user_id = $1
		ORDER BY s.created_at DESC`

	return r.queryScoreboards(ctx, query, userID)
}

func (r *postgresScoreboardRepository) queryScoreboards(ctx context.Context, query string, args ...interface{}) ([]*models.Scoreboard, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoreboards: %w", err)
	}
	defer rows.Close()

	scoreboards := make([]*models.Scoreboard, 0)
	for rows.Next() {
		s, scanErr := r.scanScoreboard(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan scoreboard row: %w", scanErr)
		}
		scoreboards = append(scoreboards, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during scoreboard rows iteration: %w", err)
	}
	return scoreboards, nil
}

func (r *postgresScoreboardRepository) Update(ctx context.Context, scoreboard *models.Scoreboard) error {
	query := `
		UPDATE scoreboards
		SET name = $1, description = $2, public_slug = $3, status = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		scoreboard.Name, scoreboard.Description, scoreboard.PublicSlug,
		scoreboard.Status, scoreboard.ID,
	)
	if err != nil {
		return r.handleScoreboardError(err)
	}
	return checkAffectedRows(result, ErrScoreboardNotFound)
}

func (r *postgresScoreboardRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM scoreboards WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScoreboardNotFound)
}

func (r *postgresScoreboardRepository) AssignTeam(ctx context.Context, scoreboardID, teamID int) error {
	query := `
		INSERT INTO scoreboard_teams (scoreboard_id, team_id)
		VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, scoreboardID, teamID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "scoreboard_teams_scoreboard_id_team_id_key" {
		return ErrTeamAssignmentConflict
	}
	return err
}

func (r *postgresScoreboardRepository) UnassignTeam(ctx context.Context, scoreboardID, teamID int) error {
	query := `DELETE FROM scoreboard_teams WHERE scoreboard_id = $1 AND team_id = $2`

	result, err := r.db.ExecContext(ctx, query, scoreboardID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamAssignmentNotFound)
}

func (r *postgresScoreboardRepository) FindTeamAssignment(ctx context.Context, scoreboardID, teamID int) (*models.ScoreboardTeam, error) {
	query := `
		SELECT id, scoreboard_id, team_id, created_at
		FROM scoreboard_teams
		WHERE scoreboard_id = $1 AND team_id = $2`

	assignment := &models.ScoreboardTeam{}
	err := r.db.QueryRowContext(ctx, query, scoreboardID, teamID).Scan(
		&assignment.ID, &assignment.ScoreboardID, &assignment.TeamID, &assignment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to scan team assignment (scoreboard %d, team %d): %w", scoreboardID, teamID, err)
	}
	return assignment, nil
}

func (r *postgresScoreboardRepository) ListTeams(ctx context.Context, scoreboardID int) ([]models.Team, error) {
	query := `
		SELECT t.id, t.name, t.logo_key, t.created_at
		FROM teams t
		JOIN scoreboard_teams st ON st.team_id = t.id
		WHERE st.scoreboard_id = $1
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, scoreboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for scoreboard %d: %w", scoreboardID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(&team.ID, &team.Name, &team.LogoKey, &team.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresScoreboardRepository) AssignScorer(ctx context.Context, userID, scoreboardID int) error {
	query := `
		INSERT INTO scorer_users (user_id, scoreboard_id)
		VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, userID, scoreboardID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "scorer_users_user_id_scoreboard_id_key" {
		return ErrScorerAssignmentConflict
	}
	return err
}

func (r *postgresScoreboardRepository) UnassignScorer(ctx context.Context, userID, scoreboardID int) error {
	query := `DELETE FROM scorer_users WHERE user_id = $1 AND scoreboard_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, scoreboardID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScorerAssignmentNotFound)
}

func (r *postgresScoreboardRepository) FindScorerAssignment(ctx context.Context, userID, scoreboardID int) (*models.ScorerAssignment, error) {
	query := `
		SELECT id, user_id, scoreboard_id, created_at
		FROM scorer_users
		WHERE user_id = $1 AND scoreboard_id = $2`

	assignment := &models.ScorerAssignment{}
	err := r.db.QueryRowContext(ctx, query, userID, scoreboardID).Scan(
		&assignment.ID, &assignment.UserID, &assignment.ScoreboardID, &assignment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScorerAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to scan scorer assignment (user %d, scoreboard %d): %w", userID, scoreboardID, err)
	}
	return assignment, nil
}

func (r *postgresScoreboardRepository) ListScorers(ctx context.Context, scoreboardID int) ([]models.ScorerAssignment, error) {
	query := `
		SELECT su.id, su.user_id, su.scoreboard_id, su.created_at,
		       u.id, u.name, u.email, u.role, u.created_at
		FROM scorer_users su
		JOIN users u ON u.id = su.user_id
		WHERE su.scoreboard_id = $1
		ORDER BY u.name ASC`

	rows, err := r.db.QueryContext(ctx, query, scoreboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorers for scoreboard %d: %w", scoreboardID, err)
	}
	defer rows.Close()

	assignments := make([]models.ScorerAssignment, 0)
	for rows.Next() {
		var assignment models.ScorerAssignment
		var user models.User
		if scanErr := rows.Scan(
			&assignment.ID, &assignment.UserID, &assignment.ScoreboardID, &assignment.CreatedAt,
			&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan scorer assignment row: %w", scanErr)
		}
		assignment.User = &user
		assignments = append(assignments, assignment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during scorer assignment rows iteration: %w", err)
	}
	return assignments, nil
}

func (r *postgresScoreboardRepository) handleScoreboardError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Constraint == "scoreboards_public_slug_key" {
			return ErrScoreboardSlugConflict
		}
	}
	return err
}
