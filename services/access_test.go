package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/scoreboard-system/models"
)

func TestCanOperate(t *testing.T) {
	repo := newFakeScoreboardRepo()
	scoreboard := repo.add("League", "league", models.ScoreboardStatusActive)
	other := repo.add("Cup", "cup", models.ScoreboardStatusActive)
	repo.scorerAssignments[[2]int{2, scoreboard.ID}] = true

	authorizer := NewAuthorizer(repo)

	tests := []struct {
		name         string
		actor        Actor
		scoreboardID int
		wantErr      error
	}{
		{"admin anywhere", Actor{ID: 1, Role: models.RoleAdmin}, scoreboard.ID, nil},
		{"admin on other scoreboard", Actor{ID: 1, Role: models.RoleAdmin}, other.ID, nil},
		{"assigned scorer", Actor{ID: 2, Role: models.RoleScorer}, scoreboard.ID, nil},
		{"scorer on unassigned scoreboard", Actor{ID: 2, Role: models.RoleScorer}, other.ID, ErrForbidden},
		{"unknown scorer", Actor{ID: 3, Role: models.RoleScorer}, scoreboard.ID, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizer.CanOperate(context.Background(), tt.actor, tt.scoreboardID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanOperate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
