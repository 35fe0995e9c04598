package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrScoreboardNotFound = errors.New("scoreboard not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMembershipNotFound = errors.New("player not assigned to this team")
	ErrAssignmentNotFound = errors.New("assignment not found")

	// Validation and business rules
	ErrValidationFailed       = errors.New("validation failed")
	ErrNameRequired           = errors.New("name is required")
	ErrSlugRequired           = errors.New("public slug is required")
	ErrSlugInvalid            = errors.New("public slug may only contain letters, digits and dashes")
	ErrInvalidScoreboardState = errors.New("invalid scoreboard status provided")
	ErrInvalidMatchStatus     = errors.New("invalid match status provided")
	ErrInvalidResult          = errors.New(`result must be "win" or "loss"`)
	ErrParticipantsRequired   = errors.New("scoreboard and participants are required")
	ErrTeamNotInScoreboard    = errors.New("team is not in this scoreboard")
	ErrPlayerNotInTeam        = errors.New("player does not belong to the stated team")
	ErrExactlyOneWinner       = errors.New("a match must have exactly one winner")
	ErrRemarksRequired        = errors.New("remarks are required when an admin edits a match")
	ErrInvalidApprovalAction  = errors.New(`invalid action, use "approve" or "reject"`)
	ErrScorerRoleRequired     = errors.New("user must be a scorer or admin")
	ErrCredentialsRequired    = errors.New("email and password are required")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Conflicts
	ErrSlugConflict             = errors.New("public slug already exists")
	ErrEmailConflict            = errors.New("email address is already in use")
	ErrMembershipConflict       = errors.New("player already assigned to this team")
	ErrTeamAssignmentConflict   = errors.New("team already assigned to this scoreboard")
	ErrScorerAssignmentConflict = errors.New("user already assigned to this scoreboard")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access denied")
)
