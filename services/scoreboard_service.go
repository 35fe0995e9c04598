package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/storage"
)

type CreateScoreboardInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PublicSlug  string  `json:"public_slug"`
	Status      *string `json:"status"`
}

type UpdateScoreboardInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PublicSlug  *string `json:"public_slug"`
	Status      *string `json:"status"`
}

type ScoreboardService struct {
	scoreboardRepo repositories.ScoreboardRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
	authorizer     *Authorizer
	uploader       storage.FileUploader
}

func NewScoreboardService(
	scoreboardRepo repositories.ScoreboardRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	authorizer *Authorizer,
	uploader storage.FileUploader,
) *ScoreboardService {
	return &ScoreboardService{
		scoreboardRepo: scoreboardRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		authorizer:     authorizer,
		uploader:       uploader,
	}
}

// List returns every scoreboard for an admin, and only the assigned
// ones for a scorer.
func (s *ScoreboardService) List(ctx context.Context, actor Actor) ([]*models.Scoreboard, error) {
	var (
		scoreboards []*models.Scoreboard
		err         error
	)
	if actor.IsAdmin() {
		scoreboards, err = s.scoreboardRepo.List(ctx)
	} else {
		scoreboards, err = s.scoreboardRepo.ListByScorer(ctx, actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list scoreboards: %w", err)
	}

	for _, scoreboard := range scoreboards {
		if err := s.populateTeams(ctx, scoreboard); err != nil {
			return nil, err
		}
		if actor.IsAdmin() {
			if err := s.populateScorersAndCreator(ctx, scoreboard); err != nil {
				return nil, err
			}
		}
	}
	return scoreboards, nil
}

func (s *ScoreboardService) Get(ctx context.Context, actor Actor, id int) (*models.Scoreboard, error) {
	scoreboard, err := s.scoreboardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", id, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := s.populateTeams(ctx, scoreboard); err != nil {
		return nil, err
	}
	if err := s.populateScorersAndCreator(ctx, scoreboard); err != nil {
		return nil, err
	}
	return scoreboard, nil
}

func (s *ScoreboardService) populateTeams(ctx context.Context, scoreboard *models.Scoreboard) error {
	teams, err := s.scoreboardRepo.ListTeams(ctx, scoreboard.ID)
	if err != nil {
		return fmt.Errorf("failed to load teams for scoreboard %d: %w", scoreboard.ID, err)
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	scoreboard.Teams = teams
	return nil
}

func (s *ScoreboardService) populateScorersAndCreator(ctx context.Context, scoreboard *models.Scoreboard) error {
	scorers, err := s.scoreboardRepo.ListScorers(ctx, scoreboard.ID)
	if err != nil {
		return fmt.Errorf("failed to load scorers for scoreboard %d: %w", scoreboard.ID, err)
	}
	scoreboard.Scorers = scorers

	creator, err := s.userRepo.GetByID(ctx, scoreboard.CreatedBy)
	if err == nil {
		scoreboard.Creator = creator
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to load creator for scoreboard %d: %w", scoreboard.ID, err)
	}
	return nil
}

func (s *ScoreboardService) Create(ctx context.Context, actor Actor, input CreateScoreboardInput) (*models.Scoreboard, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if err := validateSlug(input.PublicSlug); err != nil {
		return nil, err
	}

	status := models.ScoreboardStatusActive
	if input.Status != nil {
		status = models.ScoreboardStatus(*input.Status)
		if status != models.ScoreboardStatusActive && status != models.ScoreboardStatusInactive {
			return nil, ErrInvalidScoreboardState
		}
	}

	scoreboard := &models.Scoreboard{
		Name:        input.Name,
		Description: input.Description,
		PublicSlug:  input.PublicSlug,
		Status:      status,
		CreatedBy:   actor.ID,
	}

	if err := s.scoreboardRepo.Create(ctx, scoreboard); err != nil {
		if errors.Is(err, repositories.ErrScoreboardSlugConflict) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("failed to create scoreboard: %w", err)
	}
	return scoreboard, nil
}

func (s *ScoreboardService) Update(ctx context.Context, id int, input UpdateScoreboardInput) (*models.Scoreboard, error) {
	scoreboard, err := s.scoreboardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", id, err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		scoreboard.Name = *input.Name
	}
	if input.Description != nil {
		scoreboard.Description = input.Description
	}
	if input.PublicSlug != nil {
		if err := validateSlug(*input.PublicSlug); err != nil {
			return nil, err
		}
		scoreboard.PublicSlug = *input.PublicSlug
	}
	if input.Status != nil {
		status := models.ScoreboardStatus(*input.Status)
		if status != models.ScoreboardStatusActive && status != models.ScoreboardStatusInactive {
			return nil, ErrInvalidScoreboardState
		}
		scoreboard.Status = status
	}

	if err := s.scoreboardRepo.Update(ctx, scoreboard); err != nil {
		if errors.Is(err, repositories.ErrScoreboardSlugConflict) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("failed to update scoreboard %d: %w", id, err)
	}
	return scoreboard, nil
}

func (s *ScoreboardService) Delete(ctx context.Context, id int) error {
	if err := s.scoreboardRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return ErrScoreboardNotFound
		}
		return fmt.Errorf("failed to delete scoreboard %d: %w", id, err)
	}
	return nil
}

func (s *ScoreboardService) AssignTeam(ctx context.Context, scoreboardID, teamID int) (*models.Scoreboard, error) {
	scoreboard, err := s.scoreboardRepo.GetByID(ctx, scoreboardID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", scoreboardID, err)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	if err := s.scoreboardRepo.AssignTeam(ctx, scoreboardID, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamAssignmentConflict) {
			return nil, ErrTeamAssignmentConflict
		}
		return nil, fmt.Errorf("failed to assign team %d to scoreboard %d: %w", teamID, scoreboardID, err)
	}

	if err := s.populateTeams(ctx, scoreboard); err != nil {
		return nil, err
	}
	return scoreboard, nil
}

func (s *ScoreboardService) UnassignTeam(ctx context.Context, scoreboardID, teamID int) error {
	if err := s.scoreboardRepo.UnassignTeam(ctx, scoreboardID, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to unassign team %d from scoreboard %d: %w", teamID, scoreboardID, err)
	}
	return nil
}

func (s *ScoreboardService) AssignScorer(ctx context.Context, scoreboardID, userID int) (*models.Scoreboard, error) {
	scoreboard, err := s.scoreboardRepo.GetByID(ctx, scoreboardID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", scoreboardID, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.Role != models.RoleScorer && user.Role != models.RoleAdmin {
		return nil, ErrScorerRoleRequired
	}

	if err := s.scoreboardRepo.AssignScorer(ctx, userID, scoreboardID); err != nil {
		if errors.Is(err, repositories.ErrScorerAssignmentConflict) {
			return nil, ErrScorerAssignmentConflict
		}
		return nil, fmt.Errorf("failed to assign scorer %d to scoreboard %d: %w", userID, scoreboardID, err)
	}

	if err := s.populateScorersAndCreator(ctx, scoreboard); err != nil {
		return nil, err
	}
	return scoreboard, nil
}

func (s *ScoreboardService) UnassignScorer(ctx context.Context, scoreboardID, userID int) error {
	if err := s.scoreboardRepo.UnassignScorer(ctx, userID, scoreboardID); err != nil {
		if errors.Is(err, repositories.ErrScorerAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to unassign scorer %d from scoreboard %d: %w", userID, scoreboardID, err)
	}
	return nil
}
