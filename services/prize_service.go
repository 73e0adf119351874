package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
	"github.com/amuzant/Crewmates/storage"
)

type CreatePrizeInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type PrizeService interface {
	Create(ctx context.Context, input CreatePrizeInput) (*models.Prize, error)
	GetByID(ctx context.Context, id int) (*models.Prize, error)
	List(ctx context.Context) ([]models.Prize, error)
	UploadPhoto(ctx context.Context, prizeID int, fileName, contentType string, file io.Reader) (*models.Prize, error)
	ListUnacknowledged(ctx context.Context, userID int) ([]models.Prize, error)
	Acknowledge(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
	Claim(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
}

type prizeService struct {
	prizeRepo repositories.PrizeRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
	now       func() time.Time
}

func NewPrizeService(prizeRepo repositories.PrizeRepository, uploader storage.FileUploader, logger *slog.Logger) PrizeService {
	return &prizeService{
		prizeRepo: prizeRepo,
		uploader:  uploader,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *prizeService) populatePhotoURL(p *models.Prize) {
	if p == nil || p.PhotoKey == nil || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*p.PhotoKey); url != "" {
		p.PhotoURL = &url
	}
}

func (s *prizeService) Create(ctx context.Context, input CreatePrizeInput) (*models.Prize, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrMissingFields
	}

	prize := &models.Prize{Name: input.Name, Description: input.Description}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return nil, fmt.Errorf("failed to create prize: %w", err)
	}
	return prize, nil
}

func (s *prizeService) GetByID(ctx context.Context, id int) (*models.Prize, error) {
	prize, err := s.prizeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPrizeNotFound) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	s.populatePhotoURL(prize)
	return prize, nil
}

func (s *prizeService) List(ctx context.Context) ([]models.Prize, error) {
	prizes, err := s.prizeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	for i := range prizes {
		s.populatePhotoURL(&prizes[i])
	}
	if prizes == nil {
		prizes = []models.Prize{}
	}
	return prizes, nil
}

// UploadPhoto replaces the prize photo, deleting the previous object on a
// best-effort basis.
func (s *prizeService) UploadPhoto(ctx context.Context, prizeID int, fileName, contentType string, file io.Reader) (*models.Prize, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	prize, err := s.prizeRepo.GetByID(ctx, prizeID)
	if err != nil {
		if errors.Is(err, repositories.ErrPrizeNotFound) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}

	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		ext = fileName[idx:]
	}
	key := fmt.Sprintf("prizes/%d/%s%s", prizeID, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload prize photo: %w", err)
	}

	oldKey := prize.PhotoKey
	if err := s.prizeRepo.UpdatePhotoKey(ctx, prizeID, &key); err != nil {
		return nil, fmt.Errorf("failed to store prize photo key: %w", err)
	}

	if oldKey != nil && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous prize photo", slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	prize.PhotoKey = &key
	prize.PhotoURL = nil
	s.populatePhotoURL(prize)
	return prize, nil
}

// ListUnacknowledged returns prizes the user has won but not yet seen, the
// feed behind the "you won!" popup.
func (s *prizeService) ListUnacknowledged(ctx context.Context, userID int) ([]models.Prize, error) {
	prizes, err := s.prizeRepo.ListUnacknowledgedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unacknowledged prizes: %w", err)
	}
	for i := range prizes {
		s.populatePhotoURL(&prizes[i])
	}
	if prizes == nil {
		prizes = []models.Prize{}
	}
	return prizes, nil
}

// Acknowledge records that the winner has seen the prize announcement.
// Repeated calls are no-ops.
func (s *prizeService) Acknowledge(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	won, err := s.prizeRepo.HasWinner(ctx, prizeID, userID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrPrizeNotWon
	}

	claim, err := s.prizeRepo.UpsertAcknowledged(ctx, prizeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge prize: %w", err)
	}
	return claim, nil
}

// Claim marks the prize as physically handed over. Requires a prior win and
// rejects double claims.
func (s *prizeService) Claim(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	won, err := s.prizeRepo.HasWinner(ctx, prizeID, userID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrPrizeNotWon
	}

	existing, err := s.prizeRepo.GetClaim(ctx, prizeID, userID)
	if err != nil && !errors.Is(err, repositories.ErrPrizeClaimNotFound) {
		return nil, err
	}
	if existing != nil && existing.ClaimedAt != nil {
		return nil, ErrPrizeAlreadyClaimed
	}

	claim, err := s.prizeRepo.SetClaimed(ctx, prizeID, userID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrPrizeClaimNotFound) {
			// A claim row appears no later than acknowledgement; claiming
			// before acknowledging records both in one step.
			if _, ackErr := s.prizeRepo.UpsertAcknowledged(ctx, prizeID, userID); ackErr != nil {
				return nil, ackErr
			}
			return s.prizeRepo.SetClaimed(ctx, prizeID, userID, s.now())
		}
		return nil, fmt.Errorf("failed to claim prize: %w", err)
	}
	return claim, nil
}
