package services

import "errors"

// Shared errors mapped to HTTP statuses in the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules.
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrMissingFields         = errors.New("missing required fields")
	ErrInvalidDateFormat     = errors.New("invalid date format")
	ErrSprintInvalidRange    = errors.New("end date must be after start date")
	ErrSprintStartInPast     = errors.New("start date cannot be in the past")
	ErrSprintOverlap         = errors.New("sprint dates overlap with an existing sprint")
	ErrRankingInvalid        = errors.New("ranks must be unique positive integers forming a dense sequence from 1")
	ErrRankingEmpty          = errors.New("rankings must not be empty")
	ErrRankingUnknownProject = errors.New("ranking references a project outside the sprint")
	ErrNotEnoughPoints       = errors.New("Not enough points")
	ErrPrizeAlreadyClaimed   = errors.New("prize already claimed")
	ErrPrizeNotWon           = errors.New("prize not found or not won by user")
	ErrUploadsDisabled       = errors.New("file uploads are not configured")

	// Conflicts.
	ErrUserEmailConflict    = errors.New("email is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrChatNameConflict     = errors.New("group name already exists")

	// Authentication and authorization.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found variants for clearer context.
	ErrUserNotFound          = errors.New("user not found")
	ErrSprintNotFound        = errors.New("sprint not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectMemberNotFound = errors.New("project member not found")
	ErrPrizeNotFound         = errors.New("prize not found")
	ErrRewardNotFound        = errors.New("reward not found")
	ErrProgressNotFound      = errors.New("progress not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrChatNotFound          = errors.New("chat not found")
)
