package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sort"
	"sync"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/storage"
)

// --- stub sql.DB ---
//
// The match service owns its transactions, so tests hand it a *sql.DB
// backed by a no-op driver. Repositories are faked, the transaction
// handle is only passed through.

type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func newStubDB() *sql.DB {
	return sql.OpenDB(stubConnector{})
}

// --- repository fakes ---

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.users {
		if user.Role == role {
			copied := *user
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(name string) *models.Player {
	player := &models.Player{ID: r.nextID, Name: name}
	r.nextID++
	r.players[player.ID] = player
	return player
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *fakePlayerRepo) List(ctx context.Context) ([]*models.Player, error) {
	var out []*models.Player
	for _, player := range r.players {
		copied := *player
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) ListTeams(ctx context.Context, playerID int) ([]models.Team, error) {
	return nil, nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.PhotoKey = photoKey
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(name string) *models.Team {
	team := &models.Team{ID: r.nextID, Name: name}
	r.nextID++
	r.teams[team.ID] = team
	return team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = r.nextID
	r.nextID++
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		copied := *team
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeMembershipRepo struct {
	memberships map[int]*models.TeamMembership
	nextID      int
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[int]*models.TeamMembership), nextID: 1}
}

func (r *fakeMembershipRepo) add(teamID, playerID int) *models.TeamMembership {
	m := &models.TeamMembership{ID: r.nextID, TeamID: teamID, PlayerID: playerID}
	r.nextID++
	r.memberships[m.ID] = m
	return m
}

func (r *fakeMembershipRepo) Create(ctx context.Context, membership *models.TeamMembership) error {
	for _, existing := range r.memberships {
		if existing.TeamID == membership.TeamID && existing.PlayerID == membership.PlayerID {
			return repositories.ErrMembershipConflict
		}
	}
	membership.ID = r.nextID
	r.nextID++
	copied := *membership
	r.memberships[membership.ID] = &copied
	return nil
}

func (r *fakeMembershipRepo) Find(ctx context.Context, teamID, playerID int) (*models.TeamMembership, error) {
	for _, membership := range r.memberships {
		if membership.TeamID == teamID && membership.PlayerID == playerID {
			copied := *membership
			return &copied, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMembership, error) {
	var out []*models.TeamMembership
	for _, membership := range r.memberships {
		if membership.TeamID == teamID {
			copied := *membership
			copied.Player = &models.Player{ID: membership.PlayerID}
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembershipRepo) SetRemovalRequested(ctx context.Context, id int, requested bool) error {
	membership, ok := r.memberships[id]
	if !ok {
		return repositories.ErrMembershipNotFound
	}
	membership.RemovalRequested = requested
	return nil
}

func (r *fakeMembershipRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.memberships[id]; !ok {
		return repositories.ErrMembershipNotFound
	}
	delete(r.memberships, id)
	return nil
}

type fakeScoreboardRepo struct {
	scoreboards       map[int]*models.Scoreboard
	teamAssignments   map[[2]int]bool
	scorerAssignments map[[2]int]bool
	nextID            int
}

func newFakeScoreboardRepo() *fakeScoreboardRepo {
	return &fakeScoreboardRepo{
		scoreboards:       make(map[int]*models.Scoreboard),
		teamAssignments:   make(map[[2]int]bool),
		scorerAssignments: make(map[[2]int]bool),
		nextID:            1,
	}
}

func (r *fakeScoreboardRepo) add(name, slug string, status models.ScoreboardStatus) *models.Scoreboard {
	scoreboard := &models.Scoreboard{ID: r.nextID, Name: name, PublicSlug: slug, Status: status}
	r.nextID++
	r.scoreboards[scoreboard.ID] = scoreboard
	return scoreboard
}

func (r *fakeScoreboardRepo) Create(ctx context.Context, scoreboard *models.Scoreboard) error {
	for _, existing := range r.scoreboards {
		if existing.PublicSlug == scoreboard.PublicSlug {
			return repositories.ErrScoreboardSlugConflict
		}
	}
	scoreboard.ID = r.nextID
	r.nextID++
	copied := *scoreboard
	r.scoreboards[scoreboard.ID] = &copied
	return nil
}

func (r *fakeScoreboardRepo) GetByID(ctx context.Context, id int) (*models.Scoreboard, error) {
	scoreboard, ok := r.scoreboards[id]
	if !ok {
		return nil, repositories.ErrScoreboardNotFound
	}
	copied := *scoreboard
	return &copied, nil
}

func (r *fakeScoreboardRepo) GetBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Scoreboard, error) {
	for _, scoreboard := range r.scoreboards {
		if scoreboard.PublicSlug == slug {
			if onlyActive && scoreboard.Status != models.ScoreboardStatusActive {
				return nil, repositories.ErrScoreboardNotFound
			}
			copied := *scoreboard
			return &copied, nil
		}
	}
	return nil, repositories.ErrScoreboardNotFound
}

func (r *fakeScoreboardRepo) List(ctx context.Context) ([]*models.Scoreboard, error) {
	var out []*models.Scoreboard
	for _, scoreboard := range r.scoreboards {
		copied := *scoreboard
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScoreboardRepo) ListByScorer(ctx context.Context, userID int) ([]*models.Scoreboard, error) {
	var out []*models.Scoreboard
	for key := range r.scorerAssignments {
		if key[0] == userID {
			if scoreboard, ok := r.scoreboards[key[1]]; ok {
				copied := *scoreboard
				out = append(out, &copied)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScoreboardRepo) Update(ctx context.Context, scoreboard *models.Scoreboard) error {
	if _, ok := r.scoreboards[scoreboard.ID]; !ok {
		return repositories.ErrScoreboardNotFound
	}
	for _, existing := range r.scoreboards {
		if existing.ID != scoreboard.ID && existing.PublicSlug == scoreboard.PublicSlug {
			return repositories.ErrScoreboardSlugConflict
		}
	}
	copied := *scoreboard
	r.scoreboards[scoreboard.ID] = &copied
	return nil
}

func (r *fakeScoreboardRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.scoreboards[id]; !ok {
		return repositories.ErrScoreboardNotFound
	}
	delete(r.scoreboards, id)
	return nil
}

func (r *fakeScoreboardRepo) AssignTeam(ctx context.Context, scoreboardID, teamID int) error {
	key := [2]int{scoreboardID, teamID}
	if r.teamAssignments[key] {
		return repositories.ErrTeamAssignmentConflict
	}
	r.teamAssignments[key] = true
	return nil
}

func (r *fakeScoreboardRepo) UnassignTeam(ctx context.Context, scoreboardID, teamID int) error {
	key := [2]int{scoreboardID, teamID}
	if !r.teamAssignments[key] {
		return repositories.ErrTeamAssignmentNotFound
	}
	delete(r.teamAssignments, key)
	return nil
}

func (r *fakeScoreboardRepo) FindTeamAssignment(ctx context.Context, scoreboardID, teamID int) (*models.ScoreboardTeam, error) {
	if !r.teamAssignments[[2]int{scoreboardID, teamID}] {
		return nil, repositories.ErrTeamAssignmentNotFound
	}
	return &models.ScoreboardTeam{ScoreboardID: scoreboardID, TeamID: teamID}, nil
}

func (r *fakeScoreboardRepo) ListTeams(ctx context.Context, scoreboardID int) ([]models.Team, error) {
	var out []models.Team
	for key := range r.teamAssignments {
		if key[0] == scoreboardID {
			out = append(out, models.Team{ID: key[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScoreboardRepo) AssignScorer(ctx context.Context, userID, scoreboardID int) error {
	key := [2]int{userID, scoreboardID}
	if r.scorerAssignments[key] {
		return repositories.ErrScorerAssignmentConflict
	}
	r.scorerAssignments[key] = true
	return nil
}

func (r *fakeScoreboardRepo) UnassignScorer(ctx context.Context, userID, scoreboardID int) error {
	key := [2]int{userID, scoreboardID}
	if !r.scorerAssignments[key] {
		return repositories.ErrScorerAssignmentNotFound
	}
	delete(r.scorerAssignments, key)
	return nil
}

func (r *fakeScoreboardRepo) FindScorerAssignment(ctx context.Context, userID, scoreboardID int) (*models.ScorerAssignment, error) {
	if !r.scorerAssignments[[2]int{userID, scoreboardID}] {
		return nil, repositories.ErrScorerAssignmentNotFound
	}
	return &models.ScorerAssignment{UserID: userID, ScoreboardID: scoreboardID}, nil
}

func (r *fakeScoreboardRepo) ListScorers(ctx context.Context, scoreboardID int) ([]models.ScorerAssignment, error) {
	var out []models.ScorerAssignment
	for key := range r.scorerAssignments {
		if key[1] == scoreboardID {
			out = append(out, models.ScorerAssignment{UserID: key[0], ScoreboardID: scoreboardID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeMatchRepo struct {
	matches      map[int]*models.Match
	participants map[int]*models.MatchParticipant
	nextMatch    int
	nextPart     int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		matches:      make(map[int]*models.Match),
		participants: make(map[int]*models.MatchParticipant),
		nextMatch:    1,
		nextPart:     1,
	}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextMatch
	r.nextMatch++
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) CreateParticipant(ctx context.Context, exec repositories.SQLExecutor, participant *models.MatchParticipant) error {
	participant.ID = r.nextPart
	r.nextPart++
	copied := *participant
	r.participants[participant.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) DeleteParticipantsByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	for id, participant := range r.participants {
		if participant.MatchID == matchID {
			delete(r.participants, id)
		}
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) ListByCreator(ctx context.Context, userID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, match := range r.matches {
		if match.CreatedBy == userID {
			copied := *match
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListByScoreboard(ctx context.Context, scoreboardID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, match := range r.matches {
		if match.ScoreboardID == scoreboardID {
			copied := *match
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListCompletedByScoreboard(ctx context.Context, scoreboardID, limit int) ([]*models.Match, error) {
	var out []*models.Match
	for _, match := range r.matches {
		if match.ScoreboardID == scoreboardID && match.Status == models.MatchStatusCompleted {
			copied := *match
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMatchRepo) ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error) {
	wanted := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	var out []*models.MatchParticipant
	for _, participant := range r.participants {
		if wanted[participant.MatchID] {
			copied := *participant
			copied.Player = &models.Player{ID: participant.PlayerID}
			copied.Team = &models.Team{ID: participant.TeamID}
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	for pid, participant := range r.participants {
		if participant.MatchID == id {
			delete(r.participants, pid)
		}
	}
	return nil
}

func (r *fakeMatchRepo) participantsOf(matchID int) []*models.MatchParticipant {
	var out []*models.MatchParticipant
	for _, participant := range r.participants {
		if participant.MatchID == matchID {
			out = append(out, participant)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeStandingRepo struct {
	playerStandings []models.PlayerStanding
	teamStandings   []models.TeamStanding
	playerResults   []models.PlayerMatchEntry
}

func (r *fakeStandingRepo) PlayerStandings(ctx context.Context, scoreboardID int) ([]models.PlayerStanding, error) {
	return r.playerStandings, nil
}

func (r *fakeStandingRepo) TeamStandings(ctx context.Context, scoreboardID int) ([]models.TeamStanding, error) {
	return r.teamStandings, nil
}

func (r *fakeStandingRepo) PlayerResults(ctx context.Context, scoreboardID, playerID int) ([]models.PlayerMatchEntry, error) {
	return r.playerResults, nil
}

// --- uploader and notifier fakes ---

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

type captureNotifier struct {
	mu     sync.Mutex
	events []string
	slugs  []string
}

func (n *captureNotifier) ScoreboardUpdated(slug string, event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.slugs = append(n.slugs, slug)
	n.events = append(n.events, event)
}
