package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
)

// Actor is the authenticated caller as seen by the services. It comes
// straight from the token claims; services only ever look at the role
// and scoreboard assignments.
type Actor struct {
	ID   int
	Role models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Authorizer is the single decision point for scoreboard-scoped
// operations: an admin passes everywhere, a scorer only where a
// ScorerAssignment exists for the target scoreboard.
type Authorizer struct {
	scoreboardRepo repositories.ScoreboardRepository
}

func NewAuthorizer(scoreboardRepo repositories.ScoreboardRepository) *Authorizer {
	return &Authorizer{scoreboardRepo: scoreboardRepo}
}

func (a *Authorizer) CanOperate(ctx context.Context, actor Actor, scoreboardID int) error {
	if actor.IsAdmin() {
		return nil
	}
	_, err := a.scoreboardRepo.FindScorerAssignment(ctx, actor.ID, scoreboardID)
	if err != nil {
		if errors.Is(err, repositories.ErrScorerAssignmentNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to check scorer assignment: %w", err)
	}
	return nil
}
