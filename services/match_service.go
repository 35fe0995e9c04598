package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/storage"
)

// LiveNotifier is how the ledger tells public viewers that a
// scoreboard changed. Implemented by the websocket hub.
type LiveNotifier interface {
	ScoreboardUpdated(slug string, event string)
}

const (
	EventMatchRecorded = "MATCH_RECORDED"
	EventMatchAmended  = "MATCH_AMENDED"
	EventMatchDeleted  = "MATCH_DELETED"
)

type ParticipantInput struct {
	TeamID   int                `json:"team_id"`
	PlayerID int                `json:"player_id"`
	Result   models.MatchResult `json:"result"`
}

type CreateMatchInput struct {
	ScoreboardID int                `json:"scoreboard_id"`
	Location     *string            `json:"location"`
	Date         *time.Time         `json:"date"`
	Participants []ParticipantInput `json:"participants"`
}

type UpdateMatchInput struct {
	Location     *string            `json:"location"`
	Date         *time.Time         `json:"date"`
	Status       *string            `json:"status"`
	Participants []ParticipantInput `json:"participants"`
	Remarks      *string            `json:"remarks"`
}

// MatchService is the match ledger: it accepts new results and
// amendments, enforcing the structural invariants before anything is
// persisted. A match and its participants are written in one
// transaction, so a failed participant write never leaves a torso.
type MatchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	scoreboardRepo repositories.ScoreboardRepository
	playerRepo     repositories.PlayerRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	authorizer     *Authorizer
	uploader       storage.FileUploader
	notifier       LiveNotifier
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	scoreboardRepo repositories.ScoreboardRepository,
	playerRepo repositories.PlayerRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	authorizer *Authorizer,
	uploader storage.FileUploader,
	notifier LiveNotifier,
) *MatchService {
	return &MatchService{
		db:             db,
		matchRepo:      matchRepo,
		scoreboardRepo: scoreboardRepo,
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		authorizer:     authorizer,
		uploader:       uploader,
		notifier:       notifier,
	}
}

// CreateMatch validates and records a match result. Validation order:
// scoreboard exists, caller may operate on it, every referenced team is
// assigned to it, every player belongs to the stated team, results are
// win/loss with exactly one winner. Only then is anything written.
func (s *MatchService) CreateMatch(ctx context.Context, actor Actor, input CreateMatchInput) (*models.Match, error) {
	if input.ScoreboardID == 0 || len(input.Participants) == 0 {
		return nil, ErrParticipantsRequired
	}

	scoreboard, err := s.scoreboardRepo.GetByID(ctx, input.ScoreboardID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", input.ScoreboardID, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, input.ScoreboardID); err != nil {
		return nil, err
	}

	if err := s.validateParticipants(ctx, input.ScoreboardID, input.Participants); err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	match := &models.Match{
		ScoreboardID: input.ScoreboardID,
		Location:     input.Location,
		Date:         date,
		Status:       models.MatchStatusCompleted,
		CreatedBy:    actor.ID,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}
		for _, p := range input.Participants {
			participant := &models.MatchParticipant{
				MatchID:  match.ID,
				TeamID:   p.TeamID,
				PlayerID: p.PlayerID,
				Result:   p.Result,
			}
			if err := s.matchRepo.CreateParticipant(ctx, tx, participant); err != nil {
				return fmt.Errorf("failed to create match participant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(scoreboard, EventMatchRecorded)
	return s.expandMatch(ctx, match)
}

// UpdateMatch amends a match. Scorers with access may adjust location,
// date and status without a trace. An admin edit is always audited: it
// demands non-empty remarks, flips is_edited, and may replace the full
// participant set (replace, not merge).
func (s *MatchService) UpdateMatch(ctx context.Context, actor Actor, matchID int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, match.ScoreboardID); err != nil {
		return nil, err
	}

	if input.Status != nil && !validMatchStatus(models.MatchStatus(*input.Status)) {
		return nil, ErrInvalidMatchStatus
	}

	replaceParticipants := false
	if actor.IsAdmin() {
		if input.Remarks == nil || *input.Remarks == "" {
			return nil, ErrRemarksRequired
		}
		if input.Participants != nil {
			if err := s.validateParticipants(ctx, match.ScoreboardID, input.Participants); err != nil {
				return nil, err
			}
			replaceParticipants = true
		}
		match.IsEdited = true
		match.Remarks = input.Remarks
	}

	if input.Location != nil {
		match.Location = input.Location
	}
	if input.Date != nil {
		match.Date = *input.Date
	}
	if input.Status != nil {
		match.Status = models.MatchStatus(*input.Status)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if replaceParticipants {
			if err := s.matchRepo.DeleteParticipantsByMatch(ctx, tx, match.ID); err != nil {
				return fmt.Errorf("failed to clear participants of match %d: %w", match.ID, err)
			}
			for _, p := range input.Participants {
				participant := &models.MatchParticipant{
					MatchID:  match.ID,
					TeamID:   p.TeamID,
					PlayerID: p.PlayerID,
					Result:   p.Result,
				}
				if err := s.matchRepo.CreateParticipant(ctx, tx, participant); err != nil {
					return fmt.Errorf("failed to recreate match participant: %w", err)
				}
			}
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to update match %d: %w", match.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if scoreboard, sbErr := s.scoreboardRepo.GetByID(ctx, match.ScoreboardID); sbErr == nil {
		s.notify(scoreboard, EventMatchAmended)
	}
	return s.expandMatch(ctx, match)
}

func (s *MatchService) DeleteMatch(ctx context.Context, actor Actor, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, match.ScoreboardID); err != nil {
		return err
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}

	if scoreboard, sbErr := s.scoreboardRepo.GetByID(ctx, match.ScoreboardID); sbErr == nil {
		s.notify(scoreboard, EventMatchDeleted)
	}
	return nil
}

func (s *MatchService) GetMatch(ctx context.Context, actor Actor, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, match.ScoreboardID); err != nil {
		return nil, err
	}

	if scoreboard, sbErr := s.scoreboardRepo.GetByID(ctx, match.ScoreboardID); sbErr == nil {
		match.Scoreboard = scoreboard
	}
	if err := s.populateCreators(ctx, []*models.Match{match}); err != nil {
		return nil, err
	}
	return s.expandMatch(ctx, match)
}

// ListMyMatches returns the matches recorded by the caller, newest
// first.
func (s *MatchService) ListMyMatches(ctx context.Context, actor Actor) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for user %d: %w", actor.ID, err)
	}
	if err := s.expandMatches(ctx, matches); err != nil {
		return nil, err
	}
	for _, match := range matches {
		if scoreboard, sbErr := s.scoreboardRepo.GetByID(ctx, match.ScoreboardID); sbErr == nil {
			match.Scoreboard = scoreboard
		}
	}
	return matches, nil
}

func (s *MatchService) ListByScoreboard(ctx context.Context, actor Actor, scoreboardID int) ([]*models.Match, error) {
	if _, err := s.scoreboardRepo.GetByID(ctx, scoreboardID); err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard %d: %w", scoreboardID, err)
	}

	if err := s.authorizer.CanOperate(ctx, actor, scoreboardID); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByScoreboard(ctx, scoreboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for scoreboard %d: %w", scoreboardID, err)
	}
	if err := s.expandMatches(ctx, matches); err != nil {
		return nil, err
	}
	if err := s.populateCreators(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// validateParticipants checks every precondition of §ledger writes that
// does not depend on the caller: team assigned to the scoreboard,
// player on the stated team's roster, result valid, exactly one winner.
func (s *MatchService) validateParticipants(ctx context.Context, scoreboardID int, participants []ParticipantInput) error {
	if len(participants) == 0 {
		return ErrParticipantsRequired
	}

	seenTeams := make(map[int]bool)
	for _, p := range participants {
		if seenTeams[p.TeamID] {
			continue
		}
		seenTeams[p.TeamID] = true
		if _, err := s.scoreboardRepo.FindTeamAssignment(ctx, scoreboardID, p.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
				return fmt.Errorf("%w: team %d", ErrTeamNotInScoreboard, p.TeamID)
			}
			return fmt.Errorf("failed to check team assignment: %w", err)
		}
	}

	winners := 0
	for _, p := range participants {
		if _, err := s.playerRepo.GetByID(ctx, p.PlayerID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fmt.Errorf("%w: player %d", ErrPlayerNotFound, p.PlayerID)
			}
			return fmt.Errorf("failed to load player %d: %w", p.PlayerID, err)
		}
		if _, err := s.membershipRepo.Find(ctx, p.TeamID, p.PlayerID); err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return fmt.Errorf("%w: player %d, team %d", ErrPlayerNotInTeam, p.PlayerID, p.TeamID)
			}
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !validResult(p.Result) {
			return ErrInvalidResult
		}
		if p.Result == models.ResultWin {
			winners++
		}
	}

	// Binary win/loss standings assume a single winner per match, so
	// the rule is enforced here and not left to clients.
	if winners != 1 {
		return ErrExactlyOneWinner
	}
	return nil
}

func (s *MatchService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *MatchService) expandMatch(ctx context.Context, match *models.Match) (*models.Match, error) {
	if err := s.expandMatches(ctx, []*models.Match{match}); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *MatchService) expandMatches(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	ids := make([]int, 0, len(matches))
	byID := make(map[int]*models.Match, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ID)
		byID[match.ID] = match
		match.Participants = []models.MatchParticipant{}
	}

	participants, err := s.matchRepo.ListParticipants(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load match participants: %w", err)
	}
	for _, participant := range participants {
		populatePlayerPhotoURL(participant.Player, s.uploader)
		populateTeamLogoURL(participant.Team, s.uploader)
		match := byID[participant.MatchID]
		match.Participants = append(match.Participants, *participant)
	}
	return nil
}

func (s *MatchService) populateCreators(ctx context.Context, matches []*models.Match) error {
	creators := make(map[int]*models.User)
	for _, match := range matches {
		creator, ok := creators[match.CreatedBy]
		if !ok {
			var err error
			creator, err = s.userRepo.GetByID(ctx, match.CreatedBy)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					continue
				}
				return fmt.Errorf("failed to load creator %d: %w", match.CreatedBy, err)
			}
			creators[match.CreatedBy] = creator
		}
		match.Creator = creator
	}
	return nil
}

func (s *MatchService) notify(scoreboard *models.Scoreboard, event string) {
	if s.notifier != nil && scoreboard != nil {
		s.notifier.ScoreboardUpdated(scoreboard.PublicSlug, event)
	}
}
