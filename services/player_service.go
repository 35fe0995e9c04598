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

type PlayerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

func (s *PlayerService) List(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, player := range players {
		populatePlayerPhotoURL(player, s.uploader)
	}
	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}

	teams, err := s.playerRepo.ListTeams(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for player %d: %w", id, err)
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	player.Teams = teams

	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *PlayerService) Create(ctx context.Context, name string) (*models.Player, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	player := &models.Player{Name: name}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *PlayerService) Update(ctx context.Context, id int, name string) (*models.Player, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}

	player.Name = name
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}

	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *PlayerService) Delete(ctx context.Context, id int) error {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load player %d: %w", id, err)
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	// Remove the photo after the row is gone; a dangling object is
	// preferable to a player pointing at a deleted one.
	if player.PhotoKey != nil && *player.PhotoKey != "" && s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, *player.PhotoKey); delErr != nil {
			return fmt.Errorf("player %d deleted, but failed to delete photo: %w", id, delErr)
		}
	}
	return nil
}

// UploadPhoto stores a new photo for the player and removes the
// previous object, if any.
func (s *PlayerService) UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("players/%d/photo_%d%s", id, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload photo for player %d: %w", id, err)
	}

	oldKey := player.PhotoKey
	if err := s.playerRepo.UpdatePhotoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store photo key for player %d: %w", id, err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.PhotoKey = &key
	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}
