package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/storage"
)

// RemovalAction resolves a pending roster-removal request.
type RemovalAction string

const (
	RemovalApprove RemovalAction = "approve"
	RemovalReject  RemovalAction = "reject"
)

type TeamService struct {
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	membershipRepo repositories.MembershipRepository
	uploader       storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	membershipRepo repositories.MembershipRepository,
	uploader storage.FileUploader,
) *TeamService {
	return &TeamService{
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		uploader:       uploader,
	}
}

func (s *TeamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		populateTeamLogoURL(team, s.uploader)
		if err := s.populateMembers(ctx, team); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}

	populateTeamLogoURL(team, s.uploader)
	if err := s.populateMembers(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) populateMembers(ctx context.Context, team *models.Team) error {
	memberships, err := s.membershipRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to load roster for team %d: %w", team.ID, err)
	}
	members := make([]models.TeamMembership, 0, len(memberships))
	for _, membership := range memberships {
		populatePlayerPhotoURL(membership.Player, s.uploader)
		members = append(members, *membership)
	}
	team.Members = members
	return nil
}

func (s *TeamService) Create(ctx context.Context, name string) (*models.Team, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *TeamService) Update(ctx context.Context, id int, name string) (*models.Team, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}

	team.Name = name
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team %d: %w", id, err)
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}

	if team.LogoKey != nil && *team.LogoKey != "" && s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			return fmt.Errorf("team %d deleted, but failed to delete logo: %w", id, delErr)
		}
	}
	return nil
}

func (s *TeamService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/logo_%d%s", id, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", id, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for team %d: %w", id, err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// AddPlayer puts a player on the team roster. Re-adding a player with a
// pending removal request cancels the request instead of erroring.
func (s *TeamService) AddPlayer(ctx context.Context, teamID, playerID int) (*models.Team, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	existing, err := s.membershipRepo.Find(ctx, teamID, playerID)
	if err != nil && !errors.Is(err, repositories.ErrMembershipNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		if existing.RemovalRequested {
			if err := s.membershipRepo.SetRemovalRequested(ctx, existing.ID, false); err != nil {
				return nil, fmt.Errorf("failed to cancel removal request: %w", err)
			}
			return s.Get(ctx, teamID)
		}
		return nil, ErrMembershipConflict
	}

	membership := &models.TeamMembership{TeamID: teamID, PlayerID: playerID}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return nil, ErrMembershipConflict
		}
		return nil, fmt.Errorf("failed to add player %d to team %d: %w", playerID, teamID, err)
	}
	return s.Get(ctx, teamID)
}

// RemovePlayer is the two-phase removal entry point: an admin deletes
// the membership outright, a scorer only flags it for approval.
// The returned bool reports whether the membership is actually gone.
func (s *TeamService) RemovePlayer(ctx context.Context, actor Actor, teamID, playerID int) (bool, error) {
	membership, err := s.membershipRepo.Find(ctx, teamID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return false, ErrMembershipNotFound
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}

	if actor.IsAdmin() {
		if err := s.membershipRepo.Delete(ctx, membership.ID); err != nil {
			return false, fmt.Errorf("failed to remove player %d from team %d: %w", playerID, teamID, err)
		}
		return true, nil
	}

	if err := s.membershipRepo.SetRemovalRequested(ctx, membership.ID, true); err != nil {
		return false, fmt.Errorf("failed to flag membership for removal: %w", err)
	}
	return false, nil
}

// ResolveRemoval settles a pending removal request: approve deletes the
// membership, reject clears the flag and keeps the player on the roster.
func (s *TeamService) ResolveRemoval(ctx context.Context, teamID, playerID int, action RemovalAction) error {
	membership, err := s.membershipRepo.Find(ctx, teamID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	switch action {
	case RemovalApprove:
		if err := s.membershipRepo.Delete(ctx, membership.ID); err != nil {
			return fmt.Errorf("failed to approve removal: %w", err)
		}
		return nil
	case RemovalReject:
		if err := s.membershipRepo.SetRemovalRequested(ctx, membership.ID, false); err != nil {
			return fmt.Errorf("failed to reject removal: %w", err)
		}
		return nil
	default:
		return ErrInvalidApprovalAction
	}
}
