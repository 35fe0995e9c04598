package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/storage"
	"golang.org/x/sync/errgroup"
)

// publicMatchLogLimit caps the public match history so a long-running
// scoreboard does not ship its whole ledger to every viewer.
const publicMatchLogLimit = 50

// StandingsService serves the unauthenticated read side: everything is
// resolved through an active scoreboard's public slug, and rankings are
// derived from completed matches on each call.
type StandingsService struct {
	scoreboardRepo repositories.ScoreboardRepository
	standingRepo   repositories.StandingRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
}

func NewStandingsService(
	scoreboardRepo repositories.ScoreboardRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) *StandingsService {
	return &StandingsService{
		scoreboardRepo: scoreboardRepo,
		standingRepo:   standingRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		userRepo:       userRepo,
		uploader:       uploader,
	}
}

// ResolveScoreboard maps a public slug to its scoreboard. Inactive
// scoreboards are indistinguishable from missing ones.
func (s *StandingsService) ResolveScoreboard(ctx context.Context, slug string) (*models.Scoreboard, error) {
	scoreboard, err := s.scoreboardRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreboardNotFound) {
			return nil, ErrScoreboardNotFound
		}
		return nil, fmt.Errorf("failed to resolve scoreboard %q: %w", slug, err)
	}
	return scoreboard, nil
}

func (s *StandingsService) PlayerStandings(ctx context.Context, slug string) ([]models.PlayerStanding, error) {
	scoreboard, err := s.ResolveScoreboard(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.playerStandings(ctx, scoreboard.ID)
}

func (s *StandingsService) TeamStandings(ctx context.Context, slug string) ([]models.TeamStanding, error) {
	scoreboard, err := s.ResolveScoreboard(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.teamStandings(ctx, scoreboard.ID)
}

// MatchLog returns the most recent completed matches, formatted with
// the participants split into winners and losers.
func (s *StandingsService) MatchLog(ctx context.Context, slug string) ([]models.MatchLogEntry, error) {
	scoreboard, err := s.ResolveScoreboard(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.matchLog(ctx, scoreboard.ID)
}

// PlayerStats returns one player's record and match history within a
// scoreboard.
func (s *StandingsService) PlayerStats(ctx context.Context, slug string, playerID int) (*models.PlayerScoreboardStats, error) {
	scoreboard, err := s.ResolveScoreboard(ctx, slug)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}
	populatePlayerPhotoURL(player, s.uploader)

	history, err := s.standingRepo.PlayerResults(ctx, scoreboard.ID, playerID)
	if err != nil {
		return nil, err
	}

	stats := models.PlayerStatTotals{}
	for i := range history {
		populateTeamLogoURL(history[i].Team, s.uploader)
		switch history[i].Result {
		case models.ResultWin:
			stats.Wins++
		case models.ResultLoss:
			stats.Losses++
		}
	}
	stats.TotalMatches = len(history)

	return &models.PlayerScoreboardStats{
		Player:       player,
		Stats:        stats,
		MatchHistory: history,
	}, nil
}

// Summary aggregates the scoreboard header, both standings tables and
// the recent match log in one response, fanning the reads out
// concurrently.
func (s *StandingsService) Summary(ctx context.Context, slug string) (*models.ScoreboardSummary, error) {
	scoreboard, err := s.ResolveScoreboard(ctx, slug)
	if err != nil {
		return nil, err
	}

	summary := &models.ScoreboardSummary{Scoreboard: scoreboard}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standings, err := s.playerStandings(gctx, scoreboard.ID)
		if err != nil {
			return err
		}
		summary.Standings = standings
		return nil
	})
	g.Go(func() error {
		standings, err := s.teamStandings(gctx, scoreboard.ID)
		if err != nil {
			return err
		}
		summary.TeamStandings = standings
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchLog(gctx, scoreboard.ID)
		if err != nil {
			return err
		}
		summary.RecentMatches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *StandingsService) playerStandings(ctx context.Context, scoreboardID int) ([]models.PlayerStanding, error) {
	standings, err := s.standingRepo.PlayerStandings(ctx, scoreboardID)
	if err != nil {
		return nil, err
	}
	for i := range standings {
		if key := standings[i].PhotoKey; key != nil {
			url := s.uploader.GetPublicURL(*key)
			standings[i].PhotoURL = &url
		}
		if key := standings[i].TeamLogo; key != nil {
			url := s.uploader.GetPublicURL(*key)
			standings[i].TeamURL = &url
		}
	}
	return standings, nil
}

func (s *StandingsService) teamStandings(ctx context.Context, scoreboardID int) ([]models.TeamStanding, error) {
	standings, err := s.standingRepo.TeamStandings(ctx, scoreboardID)
	if err != nil {
		return nil, err
	}
	for i := range standings {
		standings[i].WinRate = winRate(standings[i].Wins, standings[i].Losses)
		if key := standings[i].LogoKey; key != nil {
			url := s.uploader.GetPublicURL(*key)
			standings[i].LogoURL = &url
		}
	}
	return standings, nil
}

func (s *StandingsService) matchLog(ctx context.Context, scoreboardID int) ([]models.MatchLogEntry, error) {
	matches, err := s.matchRepo.ListCompletedByScoreboard(ctx, scoreboardID, publicMatchLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches for scoreboard %d: %w", scoreboardID, err)
	}
	if len(matches) == 0 {
		return []models.MatchLogEntry{}, nil
	}

	ids := make([]int, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ID)
	}
	participants, err := s.matchRepo.ListParticipants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load match participants: %w", err)
	}
	byMatch := make(map[int][]*models.MatchParticipant)
	for _, participant := range participants {
		populatePlayerPhotoURL(participant.Player, s.uploader)
		populateTeamLogoURL(participant.Team, s.uploader)
		byMatch[participant.MatchID] = append(byMatch[participant.MatchID], participant)
	}

	scorers := make(map[int]string)
	entries := make([]models.MatchLogEntry, 0, len(matches))
	for _, match := range matches {
		scorer, ok := scorers[match.CreatedBy]
		if !ok {
			scorer = "Unknown"
			if user, userErr := s.userRepo.GetByID(ctx, match.CreatedBy); userErr == nil {
				scorer = user.Name
			}
			scorers[match.CreatedBy] = scorer
		}

		entry := models.MatchLogEntry{
			ID:       match.ID,
			Date:     match.Date,
			Location: match.Location,
			Scorer:   scorer,
			IsEdited: match.IsEdited,
			Remarks:  match.Remarks,
			Winners:  []models.MatchSide{},
			Losers:   []models.MatchSide{},
		}
		for _, participant := range byMatch[match.ID] {
			side := models.MatchSide{Player: participant.Player, Team: participant.Team}
			if participant.Result == models.ResultWin {
				entry.Winners = append(entry.Winners, side)
			} else {
				entry.Losers = append(entry.Losers, side)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// winRate is the percentage of completed matches won, rounded to the
// nearest integer. A team with no matches sits at zero.
func winRate(wins, losses int) int {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(total) * 100))
}
