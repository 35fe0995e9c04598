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
	ErrMembershipNotFound = errors.New("team membership not found")
	ErrMembershipConflict = errors.New("player already assigned to this team")
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.TeamMembership) error
	Find(ctx context.Context, teamID, playerID int) (*models.TeamMembership, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMembership, error)
	SetRemovalRequested(ctx context.Context, id int, requested bool) error
	Delete(ctx context.Context, id int) error
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) Create(ctx context.Context, membership *models.TeamMembership) error {
	query := `
		INSERT INTO team_players (team_id, player_id, removal_requested)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		membership.TeamID, membership.PlayerID, membership.RemovalRequested,
	).Scan(&membership.ID, &membership.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "team_players_team_id_player_id_key" {
		return ErrMembershipConflict
	}
	return err
}

func (r *postgresMembershipRepository) Find(ctx context.Context, teamID, playerID int) (*models.TeamMembership, error) {
	query := `
		SELECT id, team_id, player_id, removal_requested, created_at
		FROM team_players
		WHERE team_id = $1 AND player_id = $2`

	membership := &models.TeamMembership{}
	err := r.db.QueryRowContext(ctx, query, teamID, playerID).Scan(
		&membership.ID, &membership.TeamID, &membership.PlayerID,
		&membership.RemovalRequested, &membership.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to scan membership (team %d, player %d): %w", teamID, playerID, err)
	}
	return membership, nil
}

func (r *postgresMembershipRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMembership, error) {
	query := `
		SELECT tp.id, tp.team_id, tp.player_id, tp.removal_requested, tp.created_at,
		       p.id, p.name, p.photo_key, p.created_at
		FROM team_players tp
		JOIN players p ON p.id = tp.player_id
		WHERE tp.team_id = $1
		ORDER BY p.name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships for team %d: %w", teamID, err)
	}
	defer rows.Close()

	memberships := make([]*models.TeamMembership, 0)
	for rows.Next() {
		var membership models.TeamMembership
		var player models.Player
		if scanErr := rows.Scan(
			&membership.ID, &membership.TeamID, &membership.PlayerID,
			&membership.RemovalRequested, &membership.CreatedAt,
			&player.ID, &player.Name, &player.PhotoKey, &player.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", scanErr)
		}
		membership.Player = &player
		memberships = append(memberships, &membership)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during membership rows iteration: %w", err)
	}
	return memberships, nil
}

func (r *postgresMembershipRepository) SetRemovalRequested(ctx context.Context, id int, requested bool) error {
	query := `UPDATE team_players SET removal_requested = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, requested, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM team_players WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}
