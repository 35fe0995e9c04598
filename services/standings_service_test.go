package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

type standingsFixture struct {
	service        *StandingsService
	scoreboardRepo *fakeScoreboardRepo
	standingRepo   *fakeStandingRepo
	matchRepo      *fakeMatchRepo
	playerRepo     *fakePlayerRepo
	userRepo       *fakeUserRepo

	scoreboard *models.Scoreboard
}

func newStandingsFixture(t *testing.T) *standingsFixture {
	t.Helper()

	f := &standingsFixture{
		scoreboardRepo: newFakeScoreboardRepo(),
		standingRepo:   &fakeStandingRepo{},
		matchRepo:      newFakeMatchRepo(),
		playerRepo:     newFakePlayerRepo(),
		userRepo:       newFakeUserRepo(),
	}
	f.scoreboard = f.scoreboardRepo.add("Spring League", "spring-league", models.ScoreboardStatusActive)
	f.service = NewStandingsService(
		f.scoreboardRepo,
		f.standingRepo,
		f.matchRepo,
		f.playerRepo,
		f.userRepo,
		&fakeUploader{},
	)
	return f
}

func TestResolveScoreboard(t *testing.T) {
	f := newStandingsFixture(t)
	f.scoreboardRepo.add("Hidden", "hidden-league", models.ScoreboardStatusInactive)

	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"active slug", "spring-league", nil},
		{"unknown slug", "no-such-league", ErrScoreboardNotFound},
		{"inactive slug hidden", "hidden-league", ErrScoreboardNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ResolveScoreboard(context.Background(), tt.slug)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveScoreboard(%q) error = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name string
		wins int
		loss int
		want int
	}{
		{"no matches", 0, 0, 0},
		{"all wins", 5, 0, 100},
		{"all losses", 0, 4, 0},
		{"two thirds", 2, 1, 67},
		{"half", 3, 3, 50},
		{"one third", 1, 2, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := winRate(tt.wins, tt.loss); got != tt.want {
				t.Errorf("winRate(%d, %d) = %d, want %d", tt.wins, tt.loss, got, tt.want)
			}
		})
	}
}

func TestTeamStandingsWinRate(t *testing.T) {
	f := newStandingsFixture(t)
	logo := "teams/1/logo.png"
	f.standingRepo.teamStandings = []models.TeamStanding{
		{TeamID: 1, Name: "Alpha", Wins: 2, Losses: 1, LogoKey: &logo},
		{TeamID: 2, Name: "Bravo", Wins: 0, Losses: 0},
	}

	standings, err := f.service.TeamStandings(context.Background(), "spring-league")
	if err != nil {
		t.Fatalf("TeamStandings() error = %v", err)
	}
	if standings[0].WinRate != 67 {
		t.Errorf("win rate = %d, want 67", standings[0].WinRate)
	}
	if standings[1].WinRate != 0 {
		t.Errorf("win rate of matchless team = %d, want 0", standings[1].WinRate)
	}
	if standings[0].LogoURL == nil || *standings[0].LogoURL != "https://cdn.test/"+logo {
		t.Errorf("logo URL = %v, want derived from key", standings[0].LogoURL)
	}
}

func TestPlayerStandingsIncludeZeroMatchPlayers(t *testing.T) {
	f := newStandingsFixture(t)
	f.standingRepo.playerStandings = []models.PlayerStanding{
		{PlayerID: 1, Name: "Ann", Wins: 3, Losses: 0},
		{PlayerID: 2, Name: "Ben", Wins: 0, Losses: 0},
	}

	standings, err := f.service.PlayerStandings(context.Background(), "spring-league")
	if err != nil {
		t.Fatalf("PlayerStandings() error = %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("standings = %d rows, want 2", len(standings))
	}
	if standings[1].Wins != 0 || standings[1].Losses != 0 {
		t.Error("player without matches should keep a zero record")
	}
}

func TestMatchLog(t *testing.T) {
	f := newStandingsFixture(t)

	scorer := &models.User{Name: "Sam", Email: "sam@example.com", Role: models.RoleScorer}
	if err := f.userRepo.Create(context.Background(), scorer); err != nil {
		t.Fatal(err)
	}

	remarks := "corrected result"
	match := &models.Match{
		ScoreboardID: f.scoreboard.ID,
		Date:         time.Now(),
		Status:       models.MatchStatusCompleted,
		CreatedBy:    scorer.ID,
		IsEdited:     true,
		Remarks:      &remarks,
	}
	if err := f.matchRepo.Create(context.Background(), nil, match); err != nil {
		t.Fatal(err)
	}
	for _, p := range []*models.MatchParticipant{
		{MatchID: match.ID, TeamID: 1, PlayerID: 1, Result: models.ResultWin},
		{MatchID: match.ID, TeamID: 2, PlayerID: 2, Result: models.ResultLoss},
	} {
		if err := f.matchRepo.CreateParticipant(context.Background(), nil, p); err != nil {
			t.Fatal(err)
		}
	}

	// Scheduled matches stay out of the public log.
	scheduled := &models.Match{ScoreboardID: f.scoreboard.ID, Date: time.Now(), Status: models.MatchStatusScheduled, CreatedBy: scorer.ID}
	if err := f.matchRepo.Create(context.Background(), nil, scheduled); err != nil {
		t.Fatal(err)
	}

	entries, err := f.service.MatchLog(context.Background(), "spring-league")
	if err != nil {
		t.Fatalf("MatchLog() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Scorer != "Sam" {
		t.Errorf("scorer = %q, want Sam", entry.Scorer)
	}
	if !entry.IsEdited || entry.Remarks == nil || *entry.Remarks != remarks {
		t.Error("audit fields should surface in the public log")
	}
	if len(entry.Winners) != 1 || len(entry.Losers) != 1 {
		t.Errorf("winners/losers = %d/%d, want 1/1", len(entry.Winners), len(entry.Losers))
	}
	if entry.Winners[0].Player.ID != 1 {
		t.Errorf("winner player = %d, want 1", entry.Winners[0].Player.ID)
	}
}

func TestMatchLogUnknownScorer(t *testing.T) {
	f := newStandingsFixture(t)

	match := &models.Match{ScoreboardID: f.scoreboard.ID, Date: time.Now(), Status: models.MatchStatusCompleted, CreatedBy: 99}
	if err := f.matchRepo.Create(context.Background(), nil, match); err != nil {
		t.Fatal(err)
	}

	entries, err := f.service.MatchLog(context.Background(), "spring-league")
	if err != nil {
		t.Fatalf("MatchLog() error = %v", err)
	}
	if entries[0].Scorer != "Unknown" {
		t.Errorf("scorer = %q, want Unknown when the account is gone", entries[0].Scorer)
	}
}

func TestPlayerStats(t *testing.T) {
	f := newStandingsFixture(t)
	player := f.playerRepo.add("Ann")
	f.standingRepo.playerResults = []models.PlayerMatchEntry{
		{MatchID: 1, Result: models.ResultWin, Team: &models.Team{ID: 1}},
		{MatchID: 2, Result: models.ResultWin, Team: &models.Team{ID: 1}},
		{MatchID: 3, Result: models.ResultLoss, Team: &models.Team{ID: 1}},
	}

	stats, err := f.service.PlayerStats(context.Background(), "spring-league", player.ID)
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}
	if stats.Stats.Wins != 2 || stats.Stats.Losses != 1 || stats.Stats.TotalMatches != 3 {
		t.Errorf("stats = %+v, want 2/1/3", stats.Stats)
	}
	if len(stats.MatchHistory) != 3 {
		t.Errorf("history = %d entries, want 3", len(stats.MatchHistory))
	}

	if _, err := f.service.PlayerStats(context.Background(), "spring-league", 999); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("PlayerStats() error = %v, want %v", err, ErrPlayerNotFound)
	}
}

func TestSummary(t *testing.T) {
	f := newStandingsFixture(t)
	f.standingRepo.playerStandings = []models.PlayerStanding{{PlayerID: 1, Name: "Ann", Wins: 1}}
	f.standingRepo.teamStandings = []models.TeamStanding{{TeamID: 1, Name: "Alpha", Wins: 1}}

	summary, err := f.service.Summary(context.Background(), "spring-league")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Scoreboard.PublicSlug != "spring-league" {
		t.Errorf("summary scoreboard slug = %q", summary.Scoreboard.PublicSlug)
	}
	if len(summary.Standings) != 1 || len(summary.TeamStandings) != 1 {
		t.Error("summary should carry both standings tables")
	}
	if summary.RecentMatches == nil {
		t.Error("recent matches should be an empty slice, not nil")
	}
}
