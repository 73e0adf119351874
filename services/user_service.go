package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
	"github.com/amuzant/Crewmates/storage"
)

type UpdateProfileInput struct {
	DisplayName string `json:"displayName"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int, fileName, contentType string, file io.Reader) (*models.User, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	badgeRepo repositories.BadgeRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	badgeRepo repositories.BadgeRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		badgeRepo: badgeRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *userService) populateAvatarURL(u *models.User) {
	if u == nil || u.AvatarKey == nil || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*u.AvatarKey); url != "" {
		u.AvatarURL = &url
	}
}

// GetByID returns the user with badges attached, the shape the profile and
// leaderboard pages consume.
func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	badges, err := s.badgeRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for user %d: %w", id, err)
	}
	user.Badges = badges
	s.populateAvatarURL(user)
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		s.populateAvatarURL(&users[i])
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.DisplayName == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, input.DisplayName)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.populateAvatarURL(user)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, fileName, contentType string, file io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		ext = fileName[idx:]
	}
	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	if err := s.userRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key: %w", err)
	}

	if oldKey != nil && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous avatar", slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	user.AvatarKey = &key
	user.AvatarURL = nil
	s.populateAvatarURL(user)
	return user, nil
}
